package app

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

var sourceExtensions = map[string]bool{
	".scala": true,
	".sc":    true,
	".sbt":   true,
}

// ScanDirectories walks the scan roots and returns every Scala source path
// that survives the exclude globs, sorted for deterministic processing.
func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	seen := make(map[string]bool)
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			if !a.Config.Scan.IncludeTests && isTestFile(path) {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func isTestFile(path string) bool {
	normalized := filepath.ToSlash(path)
	if strings.Contains(normalized, "/src/test/") || strings.Contains(normalized, "/src/it/") {
		return true
	}
	base := strings.TrimSuffix(filepath.Base(normalized), filepath.Ext(normalized))
	return strings.HasSuffix(base, "Spec") ||
		strings.HasSuffix(base, "Test") ||
		strings.HasSuffix(base, "Suite")
}

// # internal/rollup/result.go
package rollup

import (
	"sort"

	"github.com/bitblends/scalametrics-sub000/internal/metrics"
)

// FileResult is one analyzed file: its identity, its rollup, and the
// per-declaration records it was folded from.
type FileResult struct {
	Path         string
	RelPath      string
	ID           string
	Package      string
	Dialect      string
	Rollup       Rollup
	Declarations []metrics.DeclarationMetrics
}

// PackageResult groups file results under one package name.
type PackageResult struct {
	Name   string
	Rollup Rollup
	Files  []FileResult
}

// ProjectResult is the root of the rollup hierarchy.
type ProjectResult struct {
	ProjectID    string
	Root         string
	Rollup       Rollup
	Packages     []PackageResult
	SkippedFiles []string
}

// BuildProject folds file results into package rollups and the package
// rollups into the project rollup. Combine is commutative, so the grouping
// order the files arrive in does not affect the result; packages are sorted
// by name for stable output.
func (c *Combiner) BuildProject(projectID, root string, files []FileResult, skipped []string) ProjectResult {
	byPackage := make(map[string][]FileResult)
	for _, f := range files {
		name := f.Package
		if name == "" {
			name = "<default>"
		}
		byPackage[name] = append(byPackage[name], f)
	}

	names := make([]string, 0, len(byPackage))
	for name := range byPackage {
		names = append(names, name)
	}
	sort.Strings(names)

	project := ProjectResult{
		ProjectID:    projectID,
		Root:         root,
		SkippedFiles: append([]string(nil), skipped...),
	}

	packageRollups := make([]Rollup, 0, len(names))
	for _, name := range names {
		group := byPackage[name]
		sort.Slice(group, func(i, j int) bool { return group[i].RelPath < group[j].RelPath })

		pkgRollups := make([]Rollup, 0, len(group))
		for _, f := range group {
			pkgRollups = append(pkgRollups, f.Rollup)
		}
		pkg := PackageResult{
			Name:   name,
			Rollup: c.Fold(pkgRollups),
			Files:  group,
		}
		project.Packages = append(project.Packages, pkg)
		packageRollups = append(packageRollups, pkg.Rollup)
	}

	for range skipped {
		packageRollups = append(packageRollups, c.SkippedFile())
	}
	project.Rollup = c.Fold(packageRollups)
	return project
}

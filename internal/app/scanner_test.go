package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitblends/scalametrics-sub000/internal/config"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("object X\n"), 0o644))
	}
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScanDirectoriesFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"src/main/scala/b/Second.scala",
		"src/main/scala/a/First.scala",
		"build.sbt",
		"scripts/repl.sc",
		"README.md",
		"notes.txt",
		"target/generated/Gen.scala",
		".git/hooks/Hook.scala",
	})

	a := &App{Config: config.DefaultConfig()}
	files, err := a.ScanDirectories([]string{root}, []string{".git", "target"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"build.sbt",
		"scripts/repl.sc",
		"src/main/scala/a/First.scala",
		"src/main/scala/b/Second.scala",
	}, relPaths(t, root, files))
}

func TestScanDirectoriesExcludesTestSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"src/main/scala/Main.scala",
		"src/test/scala/MainSpec.scala",
		"src/it/scala/MainIT.scala",
		"src/main/scala/ParserTest.scala",
		"src/main/scala/RouterSuite.scala",
	})

	a := &App{Config: config.DefaultConfig()}
	files, err := a.ScanDirectories([]string{root}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main/scala/Main.scala"}, relPaths(t, root, files))

	a.Config.Scan.IncludeTests = true
	files, err = a.ScanDirectories([]string{root}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 5)
}

func TestScanDirectoriesFileGlobs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{
		"src/Main.scala",
		"src/Generated.scala",
		"src/Schema.scala",
	})

	a := &App{Config: config.DefaultConfig()}
	files, err := a.ScanDirectories([]string{root}, nil, []string{"Generated.*", "Schema.scala"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Main.scala"}, relPaths(t, root, files))
}

func TestScanDirectoriesDedupesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, []string{"src/Main.scala"})

	a := &App{Config: config.DefaultConfig()}
	files, err := a.ScanDirectories([]string{root, filepath.Join(root, "src")}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestScanDirectoriesBadPattern(t *testing.T) {
	a := &App{Config: config.DefaultConfig()}
	_, err := a.ScanDirectories([]string{t.TempDir()}, []string{"[unterminated"}, nil)
	require.Error(t, err)
}

func TestIsTestFile(t *testing.T) {
	assert.True(t, isTestFile("proj/src/test/scala/FooSpec.scala"))
	assert.True(t, isTestFile("proj/src/it/scala/Bar.scala"))
	assert.True(t, isTestFile("proj/src/main/scala/BazTest.scala"))
	assert.True(t, isTestFile("proj/src/main/scala/QuxSuite.scala"))
	assert.False(t, isTestFile("proj/src/main/scala/Testimony.scala"))
	assert.False(t, isTestFile("proj/src/main/scala/Main.scala"))
}

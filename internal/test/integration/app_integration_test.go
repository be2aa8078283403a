package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitblends/scalametrics-sub000/internal/app"
	"github.com/bitblends/scalametrics-sub000/internal/config"
)

func createTestProject(t *testing.T, tmpDir string) {
	t.Helper()

	mainScala := `package demo

/** Entry point. */
object Main {
  def run(items: List[Int]): Int = {
    if (items.isEmpty) 0
    else items match {
      case head :: _ if head > 10 => head
      case _ :: tail              => run(tail)
      case Nil                    => -1
    }
  }
}
`
	utilScala := `package demo.util

class Counter(var count: Int) {
  def bump(): Unit = {
    while (count < 100) {
      count += 1
    }
  }
}
`
	buildSbt := `name := "demo"
scalaVersion := "3.4.1"
`
	specScala := `package demo

class MainSpec {
  def check(): Boolean = true
}
`

	srcDir := filepath.Join(tmpDir, "src", "main", "scala")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "util"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "Main.scala"), []byte(mainScala), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "util", "Counter.scala"), []byte(utilScala), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "build.sbt"), []byte(buildSbt), 0o644))

	testDir := filepath.Join(tmpDir, "src", "test", "scala")
	require.NoError(t, os.MkdirAll(testDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "MainSpec.scala"), []byte(specScala), 0o644))
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createTestProject(t, tmpDir)

	cfg := config.DefaultConfig()
	cfg.Paths.ProjectRoot = tmpDir
	cfg.Scan.Roots = []string{tmpDir}
	cfg.DB.Enabled = true
	cfg.DB.Path = filepath.Join(tmpDir, "history.db")
	cfg.Output.JSON = filepath.Join(tmpDir, "report.json")

	appInstance, err := app.New(cfg)
	require.NoError(t, err)
	defer appInstance.Close()

	project, err := appInstance.RunScan(context.Background())
	require.NoError(t, err)

	// test sources are excluded by default, so MainSpec.scala is absent
	assert.Equal(t, 3, project.Rollup.Files)
	assert.Empty(t, project.SkippedFiles)
	assert.Greater(t, project.Rollup.Declarations, 0)
	assert.Greater(t, project.Rollup.MaxComplexity, 1)

	packageNames := make([]string, 0, len(project.Packages))
	for _, pkg := range project.Packages {
		packageNames = append(packageNames, pkg.Name)
	}
	assert.Contains(t, packageNames, "demo")
	assert.Contains(t, packageNames, "demo.util")

	// LastResult reflects the completed scan
	last, ok := appInstance.LastResult()
	require.True(t, ok)
	assert.Equal(t, project.ProjectID, last.ProjectID)

	// snapshot landed in the history store
	snapshots, err := appInstance.Store.LoadSnapshots(appInstance.ProjectID(), time.Time{})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 3, snapshots[0].FileCount)
	assert.Equal(t, project.Rollup.Declarations, snapshots[0].DeclarationCount)

	// JSON output is well formed
	require.NoError(t, appInstance.WriteOutputs(*project))
	data, err := os.ReadFile(cfg.Output.JSON)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "project_id")
	assert.Contains(t, decoded, "packages")
}

func TestPipelineIncludesTestsWhenConfigured(t *testing.T) {
	tmpDir := t.TempDir()
	createTestProject(t, tmpDir)

	cfg := config.DefaultConfig()
	cfg.Paths.ProjectRoot = tmpDir
	cfg.Scan.Roots = []string{tmpDir}
	cfg.Scan.IncludeTests = true

	appInstance, err := app.New(cfg)
	require.NoError(t, err)
	defer appInstance.Close()

	project, err := appInstance.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, project.Rollup.Files)
}

func TestPipelineRecordsSkippedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "Ok.scala"), []byte("object Ok\n"), 0o644))
	unreadable := filepath.Join(tmpDir, "Denied.scala")
	require.NoError(t, os.WriteFile(unreadable, []byte("object Denied\n"), 0o000))

	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	cfg := config.DefaultConfig()
	cfg.Paths.ProjectRoot = tmpDir
	cfg.Scan.Roots = []string{tmpDir}

	appInstance, err := app.New(cfg)
	require.NoError(t, err)
	defer appInstance.Close()

	project, err := appInstance.RunScan(context.Background())
	require.NoError(t, err)
	// skipped files still count toward Files; SkippedFiles marks the subset
	assert.Equal(t, 2, project.Rollup.Files)
	assert.Len(t, project.SkippedFiles, 1)
	assert.Equal(t, 1, project.Rollup.SkippedFiles)
}

// # internal/watcher/watcher_test.go
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "watchertest")
	defer os.RemoveAll(tmpDir)

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"target"}, []string{"*.generated.scala"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	err = w.Watch([]string{tmpDir})
	if err != nil {
		t.Fatal(err)
	}

	// Create a source file
	testFile := filepath.Join(tmpDir, "Main.scala")
	os.WriteFile(testFile, []byte("object Main"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Non-source extensions never trigger a rescan
	otherFile := filepath.Join(tmpDir, "notes.txt")
	os.WriteFile(otherFile, []byte("not source"), 0644)

	// Neither do excluded file globs
	genFile := filepath.Join(tmpDir, "Schema.generated.scala")
	os.WriteFile(genFile, []byte("object Schema"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.txt" || base == "Schema.generated.scala" {
				t.Errorf("Filtered file %s triggered event", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "util")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	subFile := filepath.Join(subdir, "Counter.scala")
	os.WriteFile(subFile, []byte("class Counter"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == subFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", subFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for event in new subdirectory")
	}
}

func TestWatcherDebounceBatchesChanges(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 4)
	w, err := NewWatcher(300*time.Millisecond, nil, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	for i, name := range []string{"A.scala", "B.scala", "C.scala"} {
		os.WriteFile(filepath.Join(tmpDir, name), []byte("object X"), 0644)
		if i < 2 {
			time.Sleep(50 * time.Millisecond)
		}
	}

	select {
	case paths := <-changedFiles:
		if len(paths) < 2 {
			t.Errorf("Expected batched paths, got %v", paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for debounced batch")
	}
}

func TestShouldExcludeFile(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil, []string{"*.sc"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if w.shouldExcludeFile("src/Main.scala") {
		t.Error("Main.scala should pass the filter")
	}
	if !w.shouldExcludeFile("README.md") {
		t.Error("README.md should be excluded by extension")
	}
	if !w.shouldExcludeFile("script.sc") {
		t.Error("script.sc should be excluded by glob despite matching extension")
	}

	w.SetExtensions([]string{"scala", ".SBT"})
	if w.shouldExcludeFile("build.sbt") {
		t.Error("build.sbt should pass after SetExtensions")
	}
	if !w.shouldExcludeFile("Main.sc") {
		t.Error(".sc should be excluded after SetExtensions narrowed the filter")
	}
}

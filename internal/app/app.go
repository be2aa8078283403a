package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/trace"

	"github.com/bitblends/scalametrics-sub000/internal/config"
	domainerrors "github.com/bitblends/scalametrics-sub000/internal/errors"
	"github.com/bitblends/scalametrics-sub000/internal/history"
	"github.com/bitblends/scalametrics-sub000/internal/ident"
	"github.com/bitblends/scalametrics-sub000/internal/metrics"
	"github.com/bitblends/scalametrics-sub000/internal/observability"
	"github.com/bitblends/scalametrics-sub000/internal/parser"
	"github.com/bitblends/scalametrics-sub000/internal/rollup"
)

type dialectOverride struct {
	pattern glob.Glob
	dialect parser.DialectID
}

// App wires the scanner, parser, analyzers and rollup pipeline together.
type App struct {
	Config   *config.Config
	Parser   *parser.Parser
	Store    *history.Store
	combiner *rollup.Combiner

	projectRoot string
	projectID   string
	overrides   []dialectOverride

	mu       sync.RWMutex
	last     *rollup.ProjectResult
	lastScan time.Time
}

func New(cfg *config.Config) (*App, error) {
	root := cfg.Paths.ProjectRoot
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	a := &App{
		Config:      cfg,
		Parser:      parser.NewParser(),
		combiner:    rollup.NewCombiner(thresholdsFromConfig(cfg.Thresholds)),
		projectRoot: absRoot,
		projectID:   ident.ID(filepath.ToSlash(absRoot)),
	}

	for pattern, id := range cfg.Dialect.Overrides {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid dialect override pattern %q: %w", pattern, err)
		}
		a.overrides = append(a.overrides, dialectOverride{pattern: g, dialect: parser.DialectID(id)})
	}

	if cfg.DB.Enabled {
		store, err := history.Open(cfg.DB.Path)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeStorageError, "open history store")
		}
		a.Store = store
	}

	return a, nil
}

func thresholdsFromConfig(t config.Thresholds) rollup.Thresholds {
	return rollup.Thresholds{
		MaxComplexity:     t.MaxComplexity,
		MaxNesting:        t.MaxNesting,
		MaxBranchesPer100: t.MaxBranchesPer100,
		MaxCasesPerMatch:  t.MaxCasesPerMatch,
		MaxParams:         t.MaxParams,
		MinDocCoveragePct: t.MinDocCoverage,
	}
}

func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) ProjectID() string { return a.projectID }

// LastResult returns the most recent scan result, if any.
func (a *App) LastResult() (*rollup.ProjectResult, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return nil, false
	}
	return a.last, true
}

// Check implements observability.HealthChecker.
func (a *App) Check(ctx context.Context) observability.HealthStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	status := observability.HealthStatus{Status: "up"}
	if !a.lastScan.IsZero() {
		status.LastScan = a.lastScan.UTC().Format(time.RFC3339)
	}
	return status
}

// RunScan walks the configured roots, analyzes every source file through a
// bounded worker pool, and folds the results into the project rollup. Files
// that fail to parse are recorded as skipped, never fatal.
func (a *App) RunScan(ctx context.Context) (*rollup.ProjectResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunScan", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	paths, err := a.ScanDirectories(a.Config.Scan.Roots, a.Config.Scan.Exclude.Dirs, a.Config.Scan.Exclude.Files)
	if err != nil {
		return nil, domainerrors.AddContext(err, domainerrors.CtxOperation, "scan_directories")
	}

	files, skipped := a.analyzeAll(ctx, paths)

	project := a.combiner.BuildProject(a.projectID, a.projectRoot, files, skipped)

	a.mu.Lock()
	a.last = &project
	a.lastScan = time.Now()
	a.mu.Unlock()

	observability.AnalysisDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	observability.ProjectComplexityMax.Set(float64(project.Rollup.MaxComplexity))
	observability.ProjectDocCoverage.Set(project.Rollup.DocCoveragePct)

	if a.Store != nil {
		snapshot := history.FromRollup(a.projectID, project.Rollup)
		if err := a.Store.SaveSnapshot(snapshot); err != nil {
			observability.SnapshotWriteErrors.Inc()
			slog.Warn("failed to persist history snapshot", "error", err)
		}
	}

	slog.Info("scan complete",
		"files", project.Rollup.Files,
		"skipped", len(skipped),
		"declarations", project.Rollup.Declarations,
		"duration", time.Since(start))

	return &project, nil
}

func (a *App) analyzeAll(ctx context.Context, paths []string) ([]rollup.FileResult, []string) {
	workers := a.Config.Scan.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	type outcome struct {
		index  int
		result rollup.FileResult
		failed bool
		path   string
	}

	jobs := make(chan int)
	results := make(chan outcome, len(paths))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := paths[i]
				result, err := a.analyzeFile(path)
				if err != nil {
					slog.Warn("skipping file", "path", path, "error", err)
					observability.FilesSkipped.Inc()
					results <- outcome{index: i, failed: true, path: a.relPath(path)}
					continue
				}
				observability.FilesAnalyzed.Inc()
				observability.DeclarationsAnalyzed.Add(float64(len(result.Declarations)))
				results <- outcome{index: i, result: result}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var files []rollup.FileResult
	var skipped []string
	for out := range results {
		if out.failed {
			skipped = append(skipped, out.path)
			continue
		}
		files = append(files, out.result)
	}
	return files, skipped
}

func (a *App) analyzeFile(path string) (rollup.FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return rollup.FileResult{}, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeNotFound, "read source"),
			domainerrors.CtxPath, path)
	}

	file, err := a.Parser.ParseFile(path, content, a.forcedDialect(path))
	if err != nil {
		return rollup.FileResult{}, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeParseError, "parse source"),
			domainerrors.CtxPath, path)
	}

	decls := metrics.AnalyzeFile(file)
	relPath := a.relPath(path)

	return rollup.FileResult{
		Path:         path,
		RelPath:      relPath,
		ID:           ident.FileID(a.projectID, relPath),
		Package:      file.PackageName,
		Dialect:      file.Dialect,
		Rollup:       a.combiner.FromFile(file, decls),
		Declarations: decls,
	}, nil
}

func (a *App) relPath(path string) string {
	return ident.NormalizePath(path, a.projectRoot)
}

func (a *App) forcedDialect(path string) parser.DialectID {
	base := filepath.Base(path)
	for _, o := range a.overrides {
		if o.pattern.Match(base) || o.pattern.Match(filepath.ToSlash(path)) {
			return o.dialect
		}
	}
	if force := a.Config.Dialect.Force; force != "" {
		return parser.DialectID(force)
	}
	return ""
}

// # cmd/scalametrics/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitblends/scalametrics-sub000/internal/app"
	"github.com/bitblends/scalametrics-sub000/internal/config"
	"github.com/bitblends/scalametrics-sub000/internal/history"
	"github.com/bitblends/scalametrics-sub000/internal/observability"
)

var (
	configPath = flag.String("config", "./scalametrics.toml", "Path to config file")
	watch      = flag.Bool("watch", false, "Watch sources and rescan on change")
	trends     = flag.Bool("trends", false, "Print snapshot trends and exit")
	window     = flag.Duration("window", 24*time.Hour, "Moving-average window for --trends")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("scalametrics v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && !isFlagSet("config") {
			slog.Debug("no config file found, using defaults", "path", *configPath)
			cfg = config.DefaultConfig()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		cfg.Scan.Roots = flag.Args()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *trends {
		if err := printTrends(application, *window); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		os.Exit(0)
	}

	if cfg.Observability.MetricsAddr != "" {
		server := observability.NewServer(cfg.Observability.MetricsAddr, application)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	if *watch {
		if err := application.RunWatch(ctx); err != nil && ctx.Err() == nil {
			slog.Error("watch mode failed", "error", err)
			os.Exit(1)
		}
		return
	}

	project, err := application.RunScan(ctx)
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(1)
	}
	if err := application.WriteOutputs(*project); err != nil {
		slog.Error("failed to write reports", "error", err)
		os.Exit(1)
	}
	app.PrintSummary(os.Stdout, *project)
}

func printTrends(application *app.App, window time.Duration) error {
	if application.Store == nil {
		return fmt.Errorf("trends require db.enabled=true in the config")
	}
	snapshots, err := application.Store.LoadSnapshots(application.ProjectID(), time.Time{})
	if err != nil {
		return err
	}
	report, err := history.BuildTrendReport(snapshots, window)
	if err != nil {
		return err
	}
	fmt.Printf("scans: %d  (%s .. %s, window %s)\n",
		report.ScanCount,
		report.Since.Format(time.RFC3339),
		report.Until.Format(time.RFC3339),
		report.Window)
	for _, p := range report.Points {
		fmt.Printf("%s  files=%d decls=%+d loc=%d cx(max)=%d cx(avg)=%.2f doc=%.1f%% flagged=%d\n",
			p.Timestamp.Format(time.RFC3339),
			p.FileCount,
			p.DeltaDeclarations,
			p.LOC,
			p.MaxComplexity,
			p.AvgComplexity,
			p.DocCoveragePct,
			p.FlaggedComplexity)
	}
	return nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

package app

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/bitblends/scalametrics-sub000/internal/observability"
	"github.com/bitblends/scalametrics-sub000/internal/watcher"
)

// RunWatch blocks, rescanning the project whenever watched sources change.
// Rescans are full scans; the rate limiter keeps save-storms from stacking
// them. Returns when ctx is cancelled.
func (a *App) RunWatch(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Limit(a.Config.Watch.RescanPerSec), a.Config.Watch.RescanBurst)
	trigger := make(chan struct{}, 1)

	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Scan.Exclude.Dirs,
		a.Config.Scan.Exclude.Files,
		func(paths []string) {
			slog.Debug("sources changed", "count", len(paths))
			select {
			case trigger <- struct{}{}:
			default:
			}
		},
	)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(a.Config.Scan.Roots); err != nil {
		return err
	}

	// initial scan before waiting on events
	if err := a.rescan(ctx); err != nil {
		slog.Error("initial scan failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			observability.RescansTotal.Inc()
			if err := a.rescan(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Error("rescan failed", "error", err)
			}
		}
	}
}

func (a *App) rescan(ctx context.Context) error {
	project, err := a.RunScan(ctx)
	if err != nil {
		return err
	}
	return a.WriteOutputs(*project)
}

// Package server runs the importer in watch mode.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/importarr/internal/importer"
	"golang.org/x/sync/errgroup"
)

// Passer runs one import pass.
type Passer interface {
	Run(ctx context.Context) (*importer.Result, error)
}

// Runner repeats import passes on an interval until the context is cancelled.
type Runner struct {
	imp      Passer
	interval time.Duration
	log      *slog.Logger
}

// NewRunner creates a watch-mode runner.
func NewRunner(imp Passer, interval time.Duration, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{imp: imp, interval: interval, log: log}
}

// Run performs one pass immediately, then one per interval.
// A failed pass is logged and the loop continues; only context cancellation
// stops it.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.pass(ctx)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				r.pass(ctx)
			}
		}
	})

	return g.Wait()
}

func (r *Runner) pass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := r.imp.Run(ctx); err != nil {
		r.log.Error("pass failed", "error", err)
	}
}

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Run drives w on its interval until ctx is cancelled. The first cycle
// starts immediately. Cycle errors are logged and do not stop the loop.
func Run(ctx context.Context, w Worker, log zerolog.Logger) {
	interval := w.Interval()
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("worker", w.Name()).Msg("worker cycle failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Group runs a set of workers concurrently.
type Group struct {
	workers []Worker
	log     zerolog.Logger
}

// NewGroup creates a worker group.
func NewGroup(log zerolog.Logger, workers ...Worker) *Group {
	return &Group{workers: workers, log: log}
}

// Run starts every worker and blocks until ctx is cancelled and all have stopped.
func (g *Group) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, w := range g.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			g.log.Info().Str("worker", w.Name()).Dur("interval", w.Interval()).Msg("worker started")
			Run(ctx, w, g.log)
			g.log.Info().Str("worker", w.Name()).Msg("worker stopped")
		}(w)
	}
	wg.Wait()
}

// Package engine runs the monitoring loop: scrape the catalog, push
// the items through the threat pipeline, expire stale incidents.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"riskradar/internal/scrape"
	"riskradar/internal/source"
	"riskradar/internal/threat"
)

const defaultInterval = 15 * time.Minute

// CycleResult captures one full monitoring cycle.
type CycleResult struct {
	Run        scrape.RunResult     `json:"run"`
	Pipeline   threat.ProcessResult `json:"pipeline"`
	Expired    int                  `json:"expired_incidents"`
	FinishedAt time.Time            `json:"finished_at"`
}

// Engine owns the catalog, the scrape coordinator and the pipeline.
type Engine struct {
	coordinator *scrape.Coordinator
	pipeline    *threat.Pipeline
	store       threat.Store
	interval    time.Duration

	mu      sync.Mutex
	sources []source.Descriptor
	last    *CycleResult
}

// New builds an engine over a catalog. Non-positive interval means 15m.
func New(sources []source.Descriptor, store threat.Store, workers int, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Engine{
		coordinator: scrape.NewCoordinator(workers, 0),
		pipeline:    threat.NewPipeline(store),
		store:       store,
		interval:    interval,
		sources:     sources,
	}
}

// Pipeline exposes the threat pipeline for criteria and weight tuning.
func (e *Engine) Pipeline() *threat.Pipeline { return e.pipeline }

// Coordinator exposes the scrape coordinator.
func (e *Engine) Coordinator() *scrape.Coordinator { return e.coordinator }

// Sources returns a snapshot of the catalog.
func (e *Engine) Sources() []source.Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]source.Descriptor(nil), e.sources...)
}

// RunCycle executes one scrape-analyze-confirm pass.
func (e *Engine) RunCycle(ctx context.Context) CycleResult {
	run := e.coordinator.Run(ctx, e.Sources())
	pr := e.pipeline.Process(ctx, run.Items)
	expired := e.pipeline.Aggregator().Expire(time.Now().UTC())

	result := CycleResult{
		Run:        run,
		Pipeline:   pr,
		Expired:    expired,
		FinishedAt: time.Now().UTC(),
	}

	e.mu.Lock()
	e.last = &result
	e.mu.Unlock()

	slog.Info("monitoring cycle finished",
		"items", len(run.Items),
		"confirmed", pr.Confirmed,
		"duplicates", pr.Duplicates,
		"expired", expired)
	return result
}

// Start runs an immediate cycle, then one per interval until the
// context is cancelled.
func (e *Engine) Start(ctx context.Context) {
	e.RunCycle(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.coordinator.Stop()
			slog.Info("monitoring loop stopped")
			return
		case <-ticker.C:
			e.RunCycle(ctx)
		}
	}
}

// LastCycle returns the most recent cycle result, if any.
func (e *Engine) LastCycle() (CycleResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return CycleResult{}, false
	}
	return *e.last, true
}

// Incidents lists every stored incident record.
func (e *Engine) Incidents(ctx context.Context) ([]threat.Record, error) {
	return e.store.List(ctx)
}

// Dismiss marks a stored incident dismissed when the store supports it
// and the lifecycle allows the move.
func (e *Engine) Dismiss(id string) bool {
	type dismisser interface{ Dismiss(id string) bool }
	if d, ok := e.store.(dismisser); ok {
		return d.Dismiss(id)
	}
	return false
}

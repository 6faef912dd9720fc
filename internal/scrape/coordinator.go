package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"riskradar/internal/common"
	"riskradar/internal/fetch"
	"riskradar/internal/metrics"
	"riskradar/internal/source"
)

const (
	defaultWorkers     = 5
	defaultTaskTimeout = 120 * time.Second
)

// RunResult summarizes one acquisition pass over a set of sources.
type RunResult struct {
	Status      string    `json:"status"`
	SourceCount int       `json:"sources_count"`
	Successful  int       `json:"successful"`
	Failed      int       `json:"failed"`
	Items       []Item    `json:"items"`
	Errors      []string  `json:"errors,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Stats accumulates across runs of one coordinator.
type Stats struct {
	Runs          int                       `json:"runs"`
	Successful    int                       `json:"successful_sources"`
	Failed        int                       `json:"failed_sources"`
	ItemsScraped  int                       `json:"items_scraped"`
	LastRun       time.Time                 `json:"last_run"`
	SourcesByType map[common.SourceType]int `json:"sources_by_type"`
}

// CoordinatorStatus is a point-in-time snapshot.
type CoordinatorStatus struct {
	Running     bool     `json:"running"`
	ActiveTasks []string `json:"active_tasks"`
	Stats       Stats    `json:"stats"`
}

// Coordinator fans enabled sources out over a bounded worker pool.
// Each instance is independent; construct one per scraping context.
type Coordinator struct {
	workers     int
	taskTimeout time.Duration
	newClient   func(src source.Descriptor) *fetch.Client

	mu      sync.Mutex
	running bool
	active  map[string]struct{}
	stats   Stats
}

// NewCoordinator builds a coordinator. Non-positive workers or timeout
// fall back to 5 workers and 120s per source.
func NewCoordinator(workers int, taskTimeout time.Duration) *Coordinator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if taskTimeout <= 0 {
		taskTimeout = defaultTaskTimeout
	}
	return &Coordinator{
		workers:     workers,
		taskTimeout: taskTimeout,
		newClient: func(src source.Descriptor) *fetch.Client {
			return fetch.NewClient(src.RateLimit, 30*time.Second)
		},
		active: make(map[string]struct{}),
		stats:  Stats{SourcesByType: make(map[common.SourceType]int)},
	}
}

// SetClientFactory overrides how per-source fetch clients are built.
// Used by tests to point sources at local servers.
func (c *Coordinator) SetClientFactory(f func(src source.Descriptor) *fetch.Client) {
	c.newClient = f
}

type taskResult struct {
	src   source.Descriptor
	items []Item
	err   error
}

// Run scrapes every enabled source. A failing source never fails the
// run: its error is recorded and the remaining sources proceed.
func (c *Coordinator) Run(ctx context.Context, sources []source.Descriptor) RunResult {
	started := time.Now().UTC()
	enabled := source.Enabled(sources)

	result := RunResult{
		Status:      "completed",
		SourceCount: len(enabled),
		StartedAt:   started,
	}
	if len(enabled) == 0 {
		result.FinishedAt = time.Now().UTC()
		return result
	}

	c.mu.Lock()
	c.running = true
	c.mu.Unlock()

	jobs := make(chan source.Descriptor)
	results := make(chan taskResult)

	var wg sync.WaitGroup
	workers := min(c.workers, len(enabled))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				c.markActive(src.Name, true)
				items, err := c.scrapeOne(ctx, src)
				c.markActive(src.Name, false)
				results <- taskResult{src: src, items: items, err: err}
			}
		}()
	}

	go func() {
		for _, src := range enabled {
			jobs <- src
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.src.Name, r.err))
			metrics.SourcesScraped.WithLabelValues(string(r.src.Type), "error").Inc()
			slog.Error("source scrape failed", "source", r.src.Name, "err", r.err)
			continue
		}
		result.Successful++
		result.Items = append(result.Items, r.items...)
		metrics.SourcesScraped.WithLabelValues(string(r.src.Type), "success").Inc()
		metrics.ItemsScraped.WithLabelValues(string(r.src.Type)).Add(float64(len(r.items)))
	}
	result.FinishedAt = time.Now().UTC()

	c.mu.Lock()
	c.running = false
	c.stats.Runs++
	c.stats.Successful += result.Successful
	c.stats.Failed += result.Failed
	c.stats.ItemsScraped += len(result.Items)
	c.stats.LastRun = result.FinishedAt
	for _, src := range enabled {
		c.stats.SourcesByType[src.Type]++
	}
	c.mu.Unlock()

	metrics.ScrapeRuns.Inc()
	slog.Info("scrape run finished",
		"sources", result.SourceCount,
		"successful", result.Successful,
		"failed", result.Failed,
		"items", len(result.Items),
		"duration", result.FinishedAt.Sub(started))
	return result
}

// scrapeOne runs a single source under the per-task timeout. Panics in
// a strategy are converted to errors so one source cannot kill the pool.
func (c *Coordinator) scrapeOne(ctx context.Context, src source.Descriptor) (items []Item, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			items, err = nil, fmt.Errorf("strategy panic: %v", rec)
		}
	}()

	tctx, cancel := context.WithTimeout(ctx, c.taskTimeout)
	defer cancel()

	timer := metrics.NewFetchTimer(string(src.Type))
	defer timer.ObserveDuration()

	return StrategyFor(src.Type).Extract(tctx, c.newClient(src), src)
}

func (c *Coordinator) markActive(name string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.active[name] = struct{}{}
	} else {
		delete(c.active, name)
	}
}

// Status reports whether a run is in flight, the sources currently
// being scraped, and the accumulated stats.
func (c *Coordinator) Status() CoordinatorStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := CoordinatorStatus{Running: c.running, Stats: c.stats}
	st.Stats.SourcesByType = make(map[common.SourceType]int, len(c.stats.SourcesByType))
	for k, v := range c.stats.SourcesByType {
		st.Stats.SourcesByType[k] = v
	}
	for name := range c.active {
		st.ActiveTasks = append(st.ActiveTasks, name)
	}
	return st
}

// Stop is best-effort: it clears the active-task registry and flips the
// running flag. In-flight workers finish their current source.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = make(map[string]struct{})
	c.running = false
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScrapeRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rr_scrape_runs_total",
			Help: "Completed scrape runs",
		},
	)

	SourcesScraped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rr_sources_scraped_total",
			Help: "Scraped sources by type and result",
		},
		[]string{"source_type", "result"},
	)

	ItemsScraped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rr_items_scraped_total",
			Help: "Content items scraped by source type",
		},
		[]string{"source_type"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rr_fetch_duration_seconds",
			Help:    "Per-source scrape duration",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"source_type"},
	)

	IncidentsConfirmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rr_incidents_confirmed_total",
			Help: "Incidents confirmed by severity",
		},
		[]string{"severity"},
	)

	IncidentsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rr_incidents_deduplicated_total",
			Help: "Candidates dropped as duplicates of active incidents",
		},
	)
)

// NewFetchTimer starts a duration observation for one source scrape.
func NewFetchTimer(sourceType string) *prometheus.Timer {
	return prometheus.NewTimer(FetchDuration.WithLabelValues(sourceType))
}

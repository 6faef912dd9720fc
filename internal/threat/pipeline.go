package threat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"riskradar/internal/analysis"
	"riskradar/internal/common"
	"riskradar/internal/metrics"
	"riskradar/internal/scrape"
)

// Pipeline converts scraped content into scored incident candidates,
// deduplicates them and records confirmation decisions.
type Pipeline struct {
	extractor  *analysis.Extractor
	sentiment  *analysis.SentimentScorer
	scorer     *analysis.RiskScorer
	confirmer  *Confirmer
	aggregator *Aggregator
	store      Store
}

// NewPipeline wires the analysis stages around a store.
func NewPipeline(store Store) *Pipeline {
	return &Pipeline{
		extractor:  analysis.NewExtractor(),
		sentiment:  analysis.NewSentimentScorer(),
		scorer:     analysis.NewRiskScorer(),
		confirmer:  NewConfirmer(),
		aggregator: NewAggregator(0),
		store:      store,
	}
}

// Confirmer exposes the confirmer for criteria tuning.
func (p *Pipeline) Confirmer() *Confirmer { return p.confirmer }

// Scorer exposes the risk scorer for weight tuning.
func (p *Pipeline) Scorer() *analysis.RiskScorer { return p.scorer }

// Aggregator exposes the active incident set.
func (p *Pipeline) Aggregator() *Aggregator { return p.aggregator }

// ProcessResult summarizes one pipeline pass.
type ProcessResult struct {
	Processed  int         `json:"processed"`
	Duplicates int         `json:"duplicates"`
	Confirmed  int         `json:"confirmed"`
	Candidates []Candidate `json:"candidates"`
	Errors     []string    `json:"errors,omitempty"`
}

// reputableDomains earn a confidence bonus.
var reputableDomains = []string{"reuters.com", "ap.org", "bbc.com"}

// Process scores each item, drops duplicates of active incidents,
// evaluates the rest and persists every decision.
func (p *Pipeline) Process(ctx context.Context, items []scrape.Item) ProcessResult {
	var result ProcessResult
	history := p.aggregator.Active()

	for _, item := range items {
		text := item.Title + " " + item.Description

		sentiment := p.sentiment.Score(text)
		entities := p.extractor.Validate(p.extractor.Extract(text))
		confidence := contentConfidence(item)

		severity, fromSource := metadataSeverity(item)
		risk := p.scorer.Score(severity, confidence, sentiment, item.SourceType) * 10
		if !fromSource {
			severity = severityFromRisk(risk)
		}

		c := NewCandidate(item.Title, item.Description)
		c.Keywords = candidateKeywords(item, entities)
		c.Severity = severity
		c.ConfidenceScore = confidence
		c.RiskScore = risk
		c.SentimentScore = sentiment
		c.SourceType = item.SourceType
		c.SourceURLs = []string{item.URL}
		c.Entities = entities
		c.Metadata = item.Metadata
		c.ClampScores()

		if !p.aggregator.Add(c) {
			result.Duplicates++
			continue
		}

		decision := p.confirmer.Evaluate(c, nil, history)
		next := common.StatusPending
		if decision.Confirmed {
			next = common.StatusConfirmed
			result.Confirmed++
			metrics.IncidentsConfirmed.WithLabelValues(string(c.Severity)).Inc()
		}
		if err := p.aggregator.Transition(c.ID, next); err == nil {
			c.Status = next
		}

		if err := p.store.Save(ctx, Record{Candidate: c, Decision: decision}); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", c.ID, err))
			slog.Error("store failed", "incident", c.ID, "err", err)
		}

		history = append(history, c)
		result.Candidates = append(result.Candidates, c)
		result.Processed++
	}

	slog.Info("pipeline pass finished",
		"items", len(items),
		"processed", result.Processed,
		"duplicates", result.Duplicates,
		"confirmed", result.Confirmed)
	return result
}

// contentConfidence estimates extraction confidence from provenance
// and content length.
func contentConfidence(item scrape.Item) float64 {
	confidence := 0.5
	for _, domain := range reputableDomains {
		if strings.Contains(item.URL, domain) {
			confidence += 0.3
			break
		}
	}
	if len(item.Description) > 500 {
		confidence += 0.1
	}
	if len(item.Description) > 1000 {
		confidence += 0.1
	}
	if item.SourceType == common.SourceSocial {
		confidence -= 0.2
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

func metadataSeverity(item scrape.Item) (common.SeverityLevel, bool) {
	if raw, ok := item.Metadata["severity"].(string); ok && raw != "" {
		return common.ParseSeverity(raw), true
	}
	return common.SeverityMedium, false
}

// severityFromRisk maps a [0,10] risk score onto severity bands.
func severityFromRisk(risk float64) common.SeverityLevel {
	switch {
	case risk >= 8:
		return common.SeverityCritical
	case risk >= 6:
		return common.SeverityHigh
	case risk >= 4:
		return common.SeverityMedium
	case risk >= 2:
		return common.SeverityLow
	default:
		return common.SeverityInfo
	}
}

// candidateKeywords merges the source's matched keywords with the
// threat vocabulary the extractor found in the text.
func candidateKeywords(item scrape.Item, entities map[string][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, kw := range item.MatchedKeywords {
		k := strings.ToLower(kw)
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	for _, kw := range entities[analysis.EntityKeywords] {
		if _, ok := seen[kw]; !ok {
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

// RiskSummary aggregates the risk picture over a candidate set.
func (p *Pipeline) RiskSummary(candidates []Candidate) map[string]any {
	if len(candidates) == 0 {
		return map[string]any{
			"total_incidents":   0,
			"risk_distribution": map[string]int{},
			"average_risk":      0.0,
			"highest_risk":      0.0,
		}
	}
	distribution := make(map[string]int)
	var sum, highest float64
	for _, c := range candidates {
		distribution[p.scorer.Level(c.RiskScore/10)]++
		sum += c.RiskScore
		if c.RiskScore > highest {
			highest = c.RiskScore
		}
	}
	return map[string]any{
		"total_incidents":   len(candidates),
		"risk_distribution": distribution,
		"average_risk":      sum / float64(len(candidates)),
		"highest_risk":      highest,
	}
}

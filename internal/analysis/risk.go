package analysis

import (
	"fmt"
	"math"
	"sync"

	"riskradar/internal/common"
)

// Weight keys accepted by RiskScorer.UpdateWeights.
const (
	WeightSeverity   = "severity"
	WeightConfidence = "confidence"
	WeightSentiment  = "sentiment"
	WeightSource     = "source_reliability"
)

// RiskScorer combines severity, confidence, sentiment and source
// reliability into a single [0,1] score. Weights are replaceable at
// runtime as long as they still sum to 1.
type RiskScorer struct {
	mu      sync.RWMutex
	weights map[string]float64
}

var severityScores = map[common.SeverityLevel]float64{
	common.SeverityCritical: 1.0,
	common.SeverityHigh:     0.8,
	common.SeverityMedium:   0.5,
	common.SeverityLow:      0.2,
	common.SeverityInfo:     0.1,
}

var sourceScores = map[common.SourceType]float64{
	common.SourceGovernment: 0.9,
	common.SourceNews:       0.7,
	common.SourceSocial:     0.4,
	common.SourceForum:      0.3,
	common.SourceBlog:       0.5,
}

// NewRiskScorer returns a scorer with the default factor weights.
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{weights: map[string]float64{
		WeightSeverity:   0.35,
		WeightConfidence: 0.25,
		WeightSentiment:  0.20,
		WeightSource:     0.20,
	}}
}

// Score computes the weighted risk score on [0,1]. Sentiment arrives
// on [-1,1] and is remapped so more negative sentiment raises risk.
func (r *RiskScorer) Score(severity common.SeverityLevel, confidence, sentiment float64, sourceType common.SourceType) float64 {
	sev, ok := severityScores[severity]
	if !ok {
		sev = severityScores[common.SeverityMedium]
	}
	src, ok := sourceScores[sourceType]
	if !ok {
		src = 0.3
	}
	sent := math.Max(0, (1-sentiment)/2)

	r.mu.RLock()
	w := r.weights
	score := sev*w[WeightSeverity] +
		clamp01(confidence)*w[WeightConfidence] +
		sent*w[WeightSentiment] +
		src*w[WeightSource]
	r.mu.RUnlock()

	return clamp01(score)
}

// Level buckets a [0,1] score into a named risk level.
func (r *RiskScorer) Level(score float64) string {
	switch {
	case score >= 0.8:
		return "critical"
	case score >= 0.6:
		return "high"
	case score >= 0.4:
		return "medium"
	case score >= 0.2:
		return "low"
	default:
		return "minimal"
	}
}

// UpdateWeights replaces the factor weights. The update is rejected,
// leaving the current weights untouched, unless the new weights sum to
// 1.0 within a 0.01 tolerance.
func (r *RiskScorer) UpdateWeights(weights map[string]float64) error {
	sum := 0.0
	for _, v := range weights {
		sum += v
	}
	if math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("risk weights sum to %.3f, want 1.0", sum)
	}
	next := make(map[string]float64, len(weights))
	for k, v := range weights {
		next[k] = v
	}
	r.mu.Lock()
	r.weights = next
	r.mu.Unlock()
	return nil
}

// Weights returns a copy of the current factor weights.
func (r *RiskScorer) Weights() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]float64, len(r.weights))
	for k, v := range r.weights {
		out[k] = v
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

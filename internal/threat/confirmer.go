package threat

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"riskradar/internal/common"
)

// Factor weights for the final confirmation score. They sum to 1.0;
// every factor is on [0,10], so the final score is too.
const (
	weightBaseRisk   = 0.30
	weightConfidence = 0.15
	weightSentiment  = 0.15
	weightSource     = 0.15
	weightKeywords   = 0.10
	weightHistory    = 0.10
	weightAssessment = 0.05
)

// Confirmer applies multi-factor threshold analysis to decide whether
// an incident candidate is a confirmed threat.
type Confirmer struct {
	mu       sync.RWMutex
	criteria Criteria
}

// NewConfirmer returns a confirmer with the default criteria.
func NewConfirmer() *Confirmer {
	return &Confirmer{criteria: DefaultCriteria()}
}

// SetCriteria replaces the criteria wholesale. Copy-on-update: the
// caller's map is copied, never shared.
func (cf *Confirmer) SetCriteria(c Criteria) {
	weights := make(map[common.SourceType]float64, len(c.SourceTypeWeights))
	for k, v := range c.SourceTypeWeights {
		weights[k] = v
	}
	c.SourceTypeWeights = weights

	cf.mu.Lock()
	cf.criteria = c
	cf.mu.Unlock()
}

// Criteria returns the thresholds currently in force.
func (cf *Confirmer) Criteria() Criteria {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	return cf.criteria
}

// Evaluate scores a candidate against the criteria. Malformed input
// never panics or aborts a batch: it yields an unconfirmed zero-score
// decision whose explanation carries the reason.
func (cf *Confirmer) Evaluate(c Candidate, assessment *RiskAssessment, history []Candidate) Decision {
	now := time.Now().UTC()
	if reason := malformed(c); reason != "" {
		return Decision{
			Confirmed:   false,
			Score:       0,
			Explanation: "evaluation error: " + reason,
			EvaluatedAt: now,
		}
	}

	crit := cf.Criteria()

	factors := map[string]float64{
		"base_risk":  math.Min(10, math.Max(0, c.RiskScore)),
		"confidence": confidenceFactor(c.ConfidenceScore, crit),
		"sentiment":  sentimentFactor(c.SentimentScore, crit),
		"source":     sourceFactor(c, crit),
		"keywords":   keywordFactor(len(c.Keywords), crit),
		"history":    historyFactor(c, history, crit, now),
		"assessment": assessmentFactor(assessment),
	}

	score := factors["base_risk"]*weightBaseRisk +
		factors["confidence"]*weightConfidence +
		factors["sentiment"]*weightSentiment +
		factors["source"]*weightSource +
		factors["keywords"]*weightKeywords +
		factors["history"]*weightHistory +
		factors["assessment"]*weightAssessment

	// the confirmation boundary is inclusive
	confirmed := score >= crit.MinRiskScore

	return Decision{
		Confirmed:   confirmed,
		Score:       score,
		Factors:     factors,
		Explanation: explain(c, factors, score, confirmed, crit),
		EvaluatedAt: now,
	}
}

func malformed(c Candidate) string {
	if strings.TrimSpace(c.Title) == "" {
		return "candidate has no title"
	}
	for name, v := range map[string]float64{
		"risk":       c.RiskScore,
		"confidence": c.ConfidenceScore,
		"sentiment":  c.SentimentScore,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprintf("%s score is not a number", name)
		}
	}
	return ""
}

// confidenceFactor rewards extraction confidence at full rate above the
// threshold and half rate below it.
func confidenceFactor(confidence float64, crit Criteria) float64 {
	if confidence >= crit.MinConfidenceScore {
		return math.Min(10, confidence*10)
	}
	return confidence * 5
}

// sentimentFactor treats strongly negative coverage as a threat signal.
func sentimentFactor(sentiment float64, crit Criteria) float64 {
	switch {
	case sentiment <= crit.MaxNegativeSentiment:
		return math.Min(10, math.Abs(sentiment)*8)
	case sentiment < 0:
		return math.Abs(sentiment) * 5
	case sentiment < 0.3:
		return 3.0
	default:
		return math.Max(1.0, 3.0-sentiment*2)
	}
}

// sourceFactor scores the origin's type weight, with a corroboration
// bonus when more than one URL backs the candidate.
func sourceFactor(c Candidate, crit Criteria) float64 {
	weight, ok := crit.SourceTypeWeights[c.SourceType]
	if !ok {
		weight = crit.SourceTypeWeights[common.SourceOther]
	}
	score := weight * 10
	if len(c.SourceURLs) > 1 {
		score *= 1.2
	}
	return math.Min(10, score)
}

func keywordFactor(matches int, crit Criteria) float64 {
	if matches >= crit.MinKeywordMatches {
		return math.Min(10, float64(matches)*2)
	}
	return float64(matches) * 1.5
}

// historyFactor escalates when related incidents appeared inside the
// recent window; with no related history it stays neutral.
func historyFactor(c Candidate, history []Candidate, crit Criteria, now time.Time) float64 {
	cutoff := now.Add(-crit.RecentIncidentWindow)
	var riskSum float64
	var related int
	for _, h := range history {
		if h.CreatedAt.Before(cutoff) || h.ID == c.ID {
			continue
		}
		if sharesKeyword(c.Keywords, h.Keywords) {
			riskSum += h.RiskScore
			related++
		}
	}
	if related == 0 {
		return 5.0
	}
	return math.Min(10, (riskSum/float64(related))*crit.EscalationFactor)
}

func sharesKeyword(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, kw := range a {
		set[strings.ToLower(kw)] = struct{}{}
	}
	for _, kw := range b {
		if _, ok := set[strings.ToLower(kw)]; ok {
			return true
		}
	}
	return false
}

// assessmentFactor folds in an analyst assessment when present and
// stays neutral otherwise.
func assessmentFactor(a *RiskAssessment) float64 {
	if a == nil {
		return 5.0
	}
	impact := math.Min(10, math.Max(0, a.BusinessImpact))
	urgency := math.Min(10, math.Max(0, a.Urgency))
	likelihood := math.Min(1, math.Max(0, a.Likelihood))
	return (impact*0.6 + urgency*0.4) * likelihood
}

// explain renders a deterministic human-readable rationale. Factors at
// or above 7 are called out as strong signals, below 5 as weak ones;
// severity and matched keywords are always included.
func explain(c Candidate, factors map[string]float64, score float64, confirmed bool, crit Criteria) string {
	var b strings.Builder
	if confirmed {
		fmt.Fprintf(&b, "confirmed: score %.2f meets threshold %.2f\n", score, crit.MinRiskScore)
	} else {
		fmt.Fprintf(&b, "not confirmed: score %.2f below threshold %.2f\n", score, crit.MinRiskScore)
	}
	fmt.Fprintf(&b, "severity: %s\n", c.Severity)
	fmt.Fprintf(&b, "keywords matched: %d (%s)\n", len(c.Keywords), strings.Join(c.Keywords, ", "))

	names := make([]string, 0, len(factors))
	for name := range factors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := factors[name]
		switch {
		case v >= 7:
			fmt.Fprintf(&b, "+ strong %s signal (%.1f)\n", name, v)
		case v < 5:
			fmt.Fprintf(&b, "- weak %s signal (%.1f)\n", name, v)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

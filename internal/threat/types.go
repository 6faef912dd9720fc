// Package threat turns scraped content into incident candidates and
// decides which of them are confirmed threats.
package threat

import (
	"math"
	"time"

	"github.com/google/uuid"

	"riskradar/internal/common"
)

// Candidate is a potential incident assembled from scraped content.
// ConfidenceScore and SentimentScore live on their analysis scales
// ([0,1] and [-1,1]); RiskScore is on [0,10].
type Candidate struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Keywords        []string              `json:"keywords,omitempty"`
	Severity        common.SeverityLevel  `json:"severity"`
	Status          common.IncidentStatus `json:"status"`
	ConfidenceScore float64               `json:"confidence_score"`
	RiskScore       float64               `json:"risk_score"`
	SentimentScore  float64               `json:"sentiment_score"`
	SourceType      common.SourceType     `json:"source_type"`
	SourceURLs      []string              `json:"source_urls,omitempty"`
	Entities        map[string][]string   `json:"entities,omitempty"`
	Metadata        map[string]any        `json:"metadata,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// NewCandidate assigns an ID and timestamps a detected candidate.
func NewCandidate(title, description string) Candidate {
	return Candidate{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Severity:    common.SeverityMedium,
		Status:      common.StatusDetected,
		CreatedAt:   time.Now().UTC(),
	}
}

// ClampScores forces the candidate's scores onto their scales.
func (c *Candidate) ClampScores() {
	c.ConfidenceScore = math.Min(1, math.Max(0, c.ConfidenceScore))
	c.RiskScore = math.Min(10, math.Max(0, c.RiskScore))
	c.SentimentScore = math.Min(1, math.Max(-1, c.SentimentScore))
}

// RiskAssessment is an optional analyst- or model-supplied judgment
// layered on top of the computed scores. Impact and urgency are on
// [0,10]; likelihood on [0,1].
type RiskAssessment struct {
	BusinessImpact float64 `json:"business_impact"`
	Urgency        float64 `json:"urgency"`
	Likelihood     float64 `json:"likelihood"`
}

// Criteria are the thresholds confirmation is judged against.
type Criteria struct {
	MinRiskScore         float64                       `json:"min_risk_score"`
	MinConfidenceScore   float64                       `json:"min_confidence_score"`
	MaxNegativeSentiment float64                       `json:"max_negative_sentiment"`
	MinSourceReliability float64                       `json:"min_source_reliability"`
	MinKeywordMatches    int                           `json:"min_keyword_matches"`
	RecentIncidentWindow time.Duration                 `json:"recent_incident_window"`
	EscalationFactor     float64                       `json:"escalation_factor"`
	SourceTypeWeights    map[common.SourceType]float64 `json:"source_type_weights"`
}

// DefaultCriteria returns the standard confirmation thresholds. The
// value is a fresh copy each call; tune it and pass it to SetCriteria.
func DefaultCriteria() Criteria {
	return Criteria{
		MinRiskScore:         6.0,
		MinConfidenceScore:   0.7,
		MaxNegativeSentiment: -0.3,
		MinSourceReliability: 0.8,
		MinKeywordMatches:    2,
		RecentIncidentWindow: 24 * time.Hour,
		EscalationFactor:     1.2,
		SourceTypeWeights: map[common.SourceType]float64{
			common.SourceGovernment: 1.0,
			common.SourceNews:       0.9,
			common.SourceBlog:       0.8,
			common.SourceSocial:     0.6,
			common.SourceForum:      0.5,
			common.SourceOther:      0.4,
		},
	}
}

// Decision is the outcome of evaluating one candidate.
type Decision struct {
	Confirmed   bool               `json:"confirmed"`
	Score       float64            `json:"score"`
	Factors     map[string]float64 `json:"factors,omitempty"`
	Explanation string             `json:"explanation"`
	EvaluatedAt time.Time          `json:"evaluated_at"`
}

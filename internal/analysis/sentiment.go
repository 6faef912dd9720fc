package analysis

import "strings"

// negativeKeywords drive the banded sentiment heuristic. This is a
// keyword-density model, not NLP: security copy mentioning more threat
// vocabulary reads as more negative.
var negativeKeywords = []string{
	"threat", "attack", "breach", "hack", "malware", "virus",
	"exploit", "vulnerability", "compromise", "incident",
	"dangerous", "critical", "severe", "emergency",
}

// SentimentScorer maps text to a fixed set of sentiment bands.
type SentimentScorer struct{}

// NewSentimentScorer returns a scorer over the default keyword list.
func NewSentimentScorer() *SentimentScorer { return &SentimentScorer{} }

// Score returns one of four bands by distinct negative-keyword count:
// 0 keywords +0.1, 1-2 -0.3, 3-4 -0.6, 5 or more -0.9.
func (s *SentimentScorer) Score(text string) float64 {
	lower := strings.ToLower(text)
	n := 0
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	switch {
	case n == 0:
		return 0.1
	case n <= 2:
		return -0.3
	case n <= 4:
		return -0.6
	default:
		return -0.9
	}
}

// Label names a sentiment band for reports.
func (s *SentimentScorer) Label(score float64) string {
	switch {
	case score > 0:
		return "neutral_positive"
	case score >= -0.3:
		return "mildly_negative"
	case score >= -0.6:
		return "negative"
	default:
		return "strongly_negative"
	}
}

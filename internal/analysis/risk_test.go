package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"riskradar/internal/common"
)

func TestScoreStaysInRange(t *testing.T) {
	r := NewRiskScorer()
	severities := []common.SeverityLevel{
		common.SeverityCritical, common.SeverityHigh, common.SeverityMedium,
		common.SeverityLow, common.SeverityInfo,
	}
	sources := []common.SourceType{
		common.SourceGovernment, common.SourceNews, common.SourceSocial,
		common.SourceForum, common.SourceBlog, common.SourceOther,
	}
	for _, sev := range severities {
		for _, src := range sources {
			for _, conf := range []float64{0, 0.5, 1} {
				for _, sent := range []float64{-1, -0.3, 0.1, 1} {
					score := r.Score(sev, conf, sent, src)
					if score < 0 || score > 1 {
						t.Errorf("Score(%s, %v, %v, %s) = %v, outside [0,1]",
							sev, conf, sent, src, score)
					}
				}
			}
		}
	}
}

func TestScoreOrdersBySeverity(t *testing.T) {
	r := NewRiskScorer()
	critical := r.Score(common.SeverityCritical, 0.8, -0.6, common.SourceGovernment)
	info := r.Score(common.SeverityInfo, 0.8, -0.6, common.SourceGovernment)
	if critical <= info {
		t.Errorf("critical score %v not above info score %v", critical, info)
	}
}

func TestNegativeSentimentRaisesRisk(t *testing.T) {
	r := NewRiskScorer()
	negative := r.Score(common.SeverityMedium, 0.5, -0.9, common.SourceNews)
	positive := r.Score(common.SeverityMedium, 0.5, 0.1, common.SourceNews)
	if negative <= positive {
		t.Errorf("negative-sentiment score %v not above positive-sentiment score %v", negative, positive)
	}
}

func TestLevel(t *testing.T) {
	r := NewRiskScorer()
	tests := []struct {
		score float64
		want  string
	}{
		{0.85, "critical"},
		{0.8, "critical"},
		{0.65, "high"},
		{0.45, "medium"},
		{0.25, "low"},
		{0.1, "minimal"},
	}
	for _, tt := range tests {
		if got := r.Level(tt.score); got != tt.want {
			t.Errorf("Level(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestUpdateWeightsRejectsBadSum(t *testing.T) {
	r := NewRiskScorer()
	before := r.Weights()

	err := r.UpdateWeights(map[string]float64{
		WeightSeverity:   0.35,
		WeightConfidence: 0.25,
		WeightSentiment:  0.20,
		WeightSource:     0.17, // sums to 0.97
	})
	if err == nil {
		t.Fatal("UpdateWeights: want error for weights summing to 0.97")
	}
	if diff := cmp.Diff(before, r.Weights()); diff != "" {
		t.Errorf("weights changed after rejected update (-want +got):\n%s", diff)
	}
}

func TestUpdateWeightsAcceptsValidSum(t *testing.T) {
	r := NewRiskScorer()
	want := map[string]float64{
		WeightSeverity:   0.4,
		WeightConfidence: 0.3,
		WeightSentiment:  0.2,
		WeightSource:     0.1,
	}
	if err := r.UpdateWeights(want); err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}
	if diff := cmp.Diff(want, r.Weights()); diff != "" {
		t.Errorf("weights mismatch (-want +got):\n%s", diff)
	}
}

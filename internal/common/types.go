package common

import "strings"

// SourceType categorizes where a piece of content was acquired from.
type SourceType string

const (
	SourceNews       SourceType = "news"
	SourceGovernment SourceType = "government"
	SourceSocial     SourceType = "social_media"
	SourceForum      SourceType = "forum"
	SourceBlog       SourceType = "blog"
	SourceOther      SourceType = "other"
)

// KnownSourceTypes lists every type a source descriptor may declare.
var KnownSourceTypes = []SourceType{
	SourceNews, SourceGovernment, SourceSocial, SourceForum, SourceBlog, SourceOther,
}

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	for _, k := range KnownSourceTypes {
		if t == k {
			return true
		}
	}
	return false
}

// SeverityLevel denotes how serious a threat signal is.
type SeverityLevel string

const (
	SeverityCritical SeverityLevel = "critical"
	SeverityHigh     SeverityLevel = "high"
	SeverityMedium   SeverityLevel = "medium"
	SeverityLow      SeverityLevel = "low"
	SeverityInfo     SeverityLevel = "info"
)

// ParseSeverity normalizes a free-form severity string, defaulting to medium.
func ParseSeverity(s string) SeverityLevel {
	switch SeverityLevel(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityCritical:
		return SeverityCritical
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	case SeverityLow:
		return SeverityLow
	case SeverityInfo:
		return SeverityInfo
	default:
		return SeverityMedium
	}
}

// IncidentStatus tracks an incident through its lifecycle.
type IncidentStatus string

const (
	StatusDetected      IncidentStatus = "detected"
	StatusAnalyzing     IncidentStatus = "analyzing"
	StatusPending       IncidentStatus = "pending"
	StatusInvestigating IncidentStatus = "investigating"
	StatusConfirmed     IncidentStatus = "confirmed"
	StatusDismissed     IncidentStatus = "dismissed"
)

// statusRank orders the lifecycle. Transitions may only move forward,
// with one exception: pending and investigating may flip between each
// other while an analyst works a case.
var statusRank = map[IncidentStatus]int{
	StatusDetected:      0,
	StatusAnalyzing:     1,
	StatusPending:       2,
	StatusInvestigating: 2,
	StatusConfirmed:     3,
	StatusDismissed:     3,
}

// CanTransition reports whether an incident may move from one status to another.
func CanTransition(from, to IncidentStatus) bool {
	rf, okf := statusRank[from]
	rt, okt := statusRank[to]
	if !okf || !okt || from == to {
		return false
	}
	if rf == rt {
		// pending <-> investigating is the only lateral move
		return rf == 2
	}
	return rt > rf
}

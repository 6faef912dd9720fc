package threat

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"riskradar/internal/common"
	"riskradar/internal/metrics"
)

const (
	defaultIncidentTTL = 24 * time.Hour

	// titleSimilarityThreshold is the Jaccard similarity over title
	// tokens above which two candidates describe the same event.
	titleSimilarityThreshold = 0.8

	// sharedKeywordThreshold is the keyword-overlap count at which two
	// candidates are merged even when their titles differ.
	sharedKeywordThreshold = 2
)

// Aggregator deduplicates incident candidates against the active set
// and owns their lifecycle transitions. Entries expire after the TTL.
type Aggregator struct {
	mu        sync.Mutex
	ttl       time.Duration
	incidents map[string]*Candidate
}

// NewAggregator builds an aggregator; a non-positive ttl means 24h.
func NewAggregator(ttl time.Duration) *Aggregator {
	if ttl <= 0 {
		ttl = defaultIncidentTTL
	}
	return &Aggregator{ttl: ttl, incidents: make(map[string]*Candidate)}
}

// Add admits a candidate unless it duplicates an active incident.
// It returns false for duplicates, which are dropped.
func (a *Aggregator) Add(c Candidate) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.expireLocked(time.Now().UTC())
	for _, existing := range a.incidents {
		if duplicates(c, *existing) {
			metrics.IncidentsDeduplicated.Inc()
			slog.Debug("dropped duplicate candidate", "title", c.Title, "existing", existing.ID)
			return false
		}
	}
	cp := c
	a.incidents[c.ID] = &cp
	return true
}

// duplicates applies the two-part rule: near-identical titles, or
// enough shared keywords to be the same story from another source.
func duplicates(a, b Candidate) bool {
	if titleSimilarity(a.Title, b.Title) > titleSimilarityThreshold {
		return true
	}
	return sharedKeywords(a.Keywords, b.Keywords) >= sharedKeywordThreshold
}

// titleSimilarity is the Jaccard similarity of lowercase token sets.
func titleSimilarity(a, b string) float64 {
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for t := range as {
		if _, ok := bs[t]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		out[tok] = struct{}{}
	}
	return out
}

func sharedKeywords(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, kw := range a {
		set[strings.ToLower(kw)] = struct{}{}
	}
	n := 0
	for _, kw := range b {
		if _, ok := set[strings.ToLower(kw)]; ok {
			n++
		}
	}
	return n
}

// Expire drops incidents older than the TTL and returns how many went.
func (a *Aggregator) Expire(now time.Time) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expireLocked(now)
}

func (a *Aggregator) expireLocked(now time.Time) int {
	cutoff := now.Add(-a.ttl)
	n := 0
	for id, c := range a.incidents {
		if c.CreatedAt.Before(cutoff) {
			delete(a.incidents, id)
			n++
		}
	}
	return n
}

// Transition moves an incident to a new lifecycle status, enforcing
// forward-only movement (pending and investigating may swap).
func (a *Aggregator) Transition(id string, to common.IncidentStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.incidents[id]
	if !ok {
		return fmt.Errorf("incident %s not active", id)
	}
	if !common.CanTransition(c.Status, to) {
		return fmt.Errorf("incident %s cannot move %s -> %s", id, c.Status, to)
	}
	c.Status = to
	return nil
}

// Get returns an active incident by ID.
func (a *Aggregator) Get(id string) (Candidate, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.incidents[id]
	if !ok {
		return Candidate{}, false
	}
	return *c, true
}

// Active returns a snapshot of the active incident set.
func (a *Aggregator) Active() []Candidate {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Candidate, 0, len(a.incidents))
	for _, c := range a.incidents {
		out = append(out, *c)
	}
	return out
}

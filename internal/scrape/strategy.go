// Package scrape turns configured sources into content items. Each
// source type has an extraction strategy; a coordinator fans the
// enabled sources out over a bounded worker pool.
package scrape

import (
	"context"
	"strings"
	"time"

	"riskradar/internal/common"
	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

// Item is one piece of content acquired from a source.
type Item struct {
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	URL             string            `json:"url"`
	SourceName      string            `json:"source_name"`
	SourceType      common.SourceType `json:"source_type"`
	Reliability     float64           `json:"reliability"`
	MatchedKeywords []string          `json:"matched_keywords,omitempty"`
	Metadata        map[string]any    `json:"metadata,omitempty"`
	ScrapedAt       time.Time         `json:"scraped_at"`
}

// Strategy extracts items from one source. Implementations are
// stateless; per-source state (rate limits, seen URLs) lives in the
// fetch client.
type Strategy interface {
	Extract(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error)
}

var strategies = map[common.SourceType]Strategy{
	common.SourceNews:       &NewsStrategy{},
	common.SourceGovernment: &GovernmentStrategy{},
	common.SourceSocial:     &SocialStrategy{},
	common.SourceForum:      &SocialStrategy{},
	common.SourceBlog:       &BlogStrategy{},
}

// StrategyFor returns the extraction strategy for a source type,
// falling back to the generic strategy for unknown types.
func StrategyFor(t common.SourceType) Strategy {
	if s, ok := strategies[t]; ok {
		return s
	}
	return &GenericStrategy{}
}

func newItem(src source.Descriptor, title, description, url string, metadata map[string]any) Item {
	return Item{
		Title:           title,
		Description:     description,
		URL:             url,
		SourceName:      src.Name,
		SourceType:      src.Type,
		Reliability:     src.Reliability,
		MatchedKeywords: matchedKeywords(src.Keywords, title+" "+description),
		Metadata:        metadata,
		ScrapedAt:       time.Now().UTC(),
	}
}

// matchesKeywords is the acquisition filter: case-insensitive substring
// match against the source's keyword list. An empty list matches all.
func matchesKeywords(keywords []string, text string) bool {
	if len(keywords) == 0 {
		return true
	}
	return len(matchedKeywords(keywords, text)) > 0
}

func matchedKeywords(keywords []string, text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			out = append(out, kw)
		}
	}
	return out
}

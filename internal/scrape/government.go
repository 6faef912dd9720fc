package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"riskradar/internal/common"
	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

// GovernmentStrategy extracts advisories from government security
// feeds (CISA-style teaser listings). Advisories carry a severity
// derived from the advisory text and any advisory identifiers found.
type GovernmentStrategy struct{}

var (
	cvssRe      = regexp.MustCompile(`(?i)cvss[:\s]*(\d+\.?\d*)`)
	advisoryRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bCVE-\d{4}-\d{4,7}\b`),
		regexp.MustCompile(`\bCISA-[A-Z0-9-]+\b`),
		regexp.MustCompile(`\bAA\d{2}-[A-Z0-9-]+\b`),
		regexp.MustCompile(`\bICS-CERT-[A-Z0-9-]+\b`),
		regexp.MustCompile(`\bVU#\d+\b`),
	}
	productRe = regexp.MustCompile(`(?i)(?:affects?|affecting|impacts?)\s+([A-Za-z0-9][A-Za-z0-9 ._-]{2,60})`)
)

func (g *GovernmentStrategy) Extract(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error) {
	doc, err := client.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var items []Item
	doc.Find(src.Selector("article", "div.c-teaser, div.views-row")).EachWithBreak(func(_ int, advisory *goquery.Selection) bool {
		title := firstText(advisory, src.Selector("title", "h3 a, h2 a"))
		if len(title) < 5 {
			return true
		}

		url := resolveURL(firstHref(advisory, src.Selector("link", "h3 a, h2 a, a")), src.URL)
		if client.Seen(url) {
			return true
		}

		desc := description(advisory, src.Selector("content", "div.c-teaser__summary, div.field-content, p"), 3, 600)
		if desc == "" && url != src.URL {
			desc = fetchBody(ctx, client, url, 1000)
		}

		if !matchesKeywords(src.Keywords, title+" "+desc) {
			return true
		}

		text := title + " " + desc
		items = append(items, newItem(src, title, desc, url, map[string]any{
			"article_type":      "government_advisory",
			"severity":          string(advisorySeverity(text)),
			"advisory_ids":      advisoryIDs(text),
			"affected_products": affectedProducts(text),
			"published_date":    publishedDate(advisory),
		}))
		client.MarkSeen(url)
		return len(items) < 15
	})

	slog.Info("government extraction finished", "source", src.Name, "items", len(items))
	return items, nil
}

// advisorySeverity classifies advisory text by severity vocabulary
// first, then by any embedded CVSS score, defaulting to medium.
func advisorySeverity(text string) common.SeverityLevel {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "critical", "emergency", "urgent"):
		return common.SeverityCritical
	case containsAny(lower, "high", "important", "severe"):
		return common.SeverityHigh
	case containsAny(lower, "medium", "moderate"):
		return common.SeverityMedium
	case containsAny(lower, "low", "minor"):
		return common.SeverityLow
	}
	if m := cvssRe.FindStringSubmatch(text); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			switch {
			case score >= 9.0:
				return common.SeverityCritical
			case score >= 7.0:
				return common.SeverityHigh
			case score >= 4.0:
				return common.SeverityMedium
			default:
				return common.SeverityLow
			}
		}
	}
	return common.SeverityMedium
}

func advisoryIDs(text string) []string {
	var ids []string
	for _, re := range advisoryRes {
		for _, m := range re.FindAllString(text, -1) {
			ids = append(ids, strings.ToUpper(m))
		}
	}
	return uniqStrings(ids)
}

func affectedProducts(text string) []string {
	var products []string
	for _, m := range productRe.FindAllStringSubmatch(text, -1) {
		products = append(products, strings.TrimSpace(m[1]))
	}
	return uniqStrings(products)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func uniqStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

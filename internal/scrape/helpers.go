package scrape

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"riskradar/internal/fetch"
)

// cleanText collapses runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL turns an href into an absolute URL. Absolute links pass
// through, root-relative links join the source origin, and anything
// else falls back to the listing URL itself.
func resolveURL(href, sourceURL string) string {
	href = strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		parts := strings.SplitN(sourceURL, "/", 4)
		if len(parts) >= 3 {
			return parts[0] + "//" + parts[2] + href
		}
	}
	return sourceURL
}

// truncate caps a string at n bytes on a rune-safe boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// description joins the first maxParts matched fragments longer than 20
// characters, capped at limit bytes.
func description(container *goquery.Selection, selector string, maxParts, limit int) string {
	var parts []string
	container.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := cleanText(s.Text()); len(text) > 20 {
			parts = append(parts, text)
		}
		return len(parts) < maxParts
	})
	return truncate(strings.Join(parts, " "), limit)
}

// bodySelectors are tried in order when a listing carries no summary
// and the item's own page has to be fetched.
var bodySelectors = []string{
	".entry-content",
	".post-content",
	".article-content",
	".article-body",
	".content",
	"main p",
	"article p",
}

// fetchBody pulls a bounded description from the linked page itself.
// Failures degrade to an empty string; the item survives without a body.
func fetchBody(ctx context.Context, client *fetch.Client, url string, limit int) string {
	doc, err := client.Fetch(ctx, url)
	if err != nil {
		return ""
	}
	for _, sel := range bodySelectors {
		var parts []string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if text := cleanText(s.Text()); len(text) > 20 {
				parts = append(parts, text)
			}
			return len(parts) < 5
		})
		if len(parts) > 0 {
			return truncate(strings.Join(parts, " "), limit)
		}
	}
	return ""
}

// firstText returns the cleaned text of the first match, or "".
func firstText(container *goquery.Selection, selector string) string {
	if sel := container.Find(selector).First(); sel.Length() > 0 {
		return cleanText(sel.Text())
	}
	return ""
}

// firstHref returns the href of the first matching anchor, or "".
func firstHref(container *goquery.Selection, selector string) string {
	if sel := container.Find(selector).First(); sel.Length() > 0 {
		return sel.AttrOr("href", "")
	}
	return ""
}

package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

// feedPaths are probed relative to the source origin when the source
// does not point at a feed directly.
var feedPaths = []string{"/feed", "/rss", "/feed.xml", "/rss.xml", "/atom.xml", "/index.xml"}

// feedItems is the RSS/Atom fallback for listing pages that render
// their articles client-side. The source URL is tried as a feed first,
// then the conventional feed paths on its origin.
func feedItems(ctx context.Context, client *fetch.Client, src source.Descriptor, limit int) ([]Item, error) {
	parser := gofeed.NewParser()

	candidates := []string{src.URL}
	if origin := originOf(src.URL); origin != "" {
		for _, p := range feedPaths {
			candidates = append(candidates, origin+p)
		}
	}

	var feed *gofeed.Feed
	var lastErr error
	for _, url := range candidates {
		if err := client.Wait(ctx); err != nil {
			return nil, &fetch.Error{Kind: fetch.ErrTimeout, URL: url, Err: err}
		}
		f, err := parser.ParseURLWithContext(url, ctx)
		if err != nil {
			lastErr = err
			continue
		}
		feed = f
		break
	}
	if feed == nil {
		return nil, &fetch.Error{Kind: fetch.ErrParse, URL: src.URL, Err: fmt.Errorf("no usable feed: %w", lastErr)}
	}

	var items []Item
	for _, entry := range feed.Items {
		if len(items) >= limit {
			break
		}
		title := cleanText(entry.Title)
		if len(title) < 10 {
			continue
		}
		url := entry.Link
		if url == "" {
			url = src.URL
		}
		if client.Seen(url) {
			continue
		}
		desc := truncate(cleanText(entry.Description), 500)
		if !matchesKeywords(src.Keywords, title+" "+desc) {
			continue
		}
		items = append(items, newItem(src, title, desc, url, map[string]any{
			"article_type":   "feed_entry",
			"published_date": entry.Published,
			"feed_title":     feed.Title,
		}))
		client.MarkSeen(url)
	}
	return items, nil
}

func originOf(url string) string {
	parts := strings.SplitN(url, "/", 4)
	if len(parts) >= 3 && (parts[0] == "http:" || parts[0] == "https:") {
		return parts[0] + "//" + parts[2]
	}
	return ""
}

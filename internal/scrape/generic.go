package scrape

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

// GenericStrategy is the fallback for source types without a dedicated
// strategy. It makes conservative assumptions about page structure.
type GenericStrategy struct{}

func (g *GenericStrategy) Extract(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error) {
	doc, err := client.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var items []Item
	doc.Find(src.Selector("article", "article, .post, .entry, .item")).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		title := firstText(el, src.Selector("title", "h1, h2, h3, .title"))
		if len(title) < 5 {
			return true
		}

		url := resolveURL(firstHref(el, src.Selector("link", "a")), src.URL)
		if client.Seen(url) {
			return true
		}

		desc := description(el, src.Selector("content", "p, .content, .summary"), 3, 500)
		if !matchesKeywords(src.Keywords, title+" "+desc) {
			return true
		}

		items = append(items, newItem(src, title, desc, url, map[string]any{
			"article_type": "generic",
		}))
		client.MarkSeen(url)
		return len(items) < 10
	})

	slog.Info("generic extraction finished", "source", src.Name, "items", len(items))
	return items, nil
}

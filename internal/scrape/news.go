package scrape

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

// NewsStrategy extracts articles from news listing pages. When a
// listing yields no containers it falls back to the source's RSS/Atom
// feed before giving up.
type NewsStrategy struct{}

func (n *NewsStrategy) Extract(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error) {
	doc, err := client.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	containers := doc.Find(src.Selector("article", "article"))
	if containers.Length() == 0 {
		slog.Info("no article containers, trying feed fallback", "source", src.Name)
		return feedItems(ctx, client, src, 20)
	}

	var items []Item
	containers.EachWithBreak(func(_ int, article *goquery.Selection) bool {
		title := firstText(article, src.Selector("title", "h1, h2, h3"))
		if len(title) < 10 {
			return true
		}

		url := resolveURL(firstHref(article, src.Selector("link", "a")), src.URL)
		if client.Seen(url) {
			return true
		}

		desc := description(article, src.Selector("content", "p"), 3, 500)
		if desc == "" && url != src.URL {
			desc = fetchBody(ctx, client, url, 800)
		}

		if !matchesKeywords(src.Keywords, title+" "+desc) {
			return true
		}

		items = append(items, newItem(src, title, desc, url, map[string]any{
			"article_type":   "news_article",
			"published_date": publishedDate(article),
			"author":         firstText(article, ".author, .byline, [rel='author']"),
		}))
		client.MarkSeen(url)
		return len(items) < 20
	})

	slog.Info("news extraction finished", "source", src.Name, "items", len(items))
	return items, nil
}

// publishedDate tries common date markup, preferring machine-readable
// datetime attributes over visible text.
func publishedDate(container *goquery.Selection) string {
	for _, sel := range []string{"time", ".date", ".published", ".post-date", ".entry-date", ".timestamp"} {
		el := container.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if dt, ok := el.Attr("datetime"); ok && dt != "" {
			return dt
		}
		if text := cleanText(el.Text()); text != "" {
			return text
		}
	}
	return ""
}

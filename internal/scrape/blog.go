package scrape

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

// BlogStrategy extracts posts from security blogs. Blogs carry richer
// per-post metadata (tags, category, author) than news listings.
type BlogStrategy struct{}

func (b *BlogStrategy) Extract(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error) {
	doc, err := client.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	containers := doc.Find(src.Selector("article", "article, .post, .entry"))
	if containers.Length() == 0 {
		slog.Info("no post containers, trying feed fallback", "source", src.Name)
		return feedItems(ctx, client, src, 15)
	}

	var items []Item
	containers.EachWithBreak(func(_ int, post *goquery.Selection) bool {
		title := firstText(post, src.Selector("title", "h1, h2, h3, .title"))
		if len(title) < 10 {
			return true
		}

		url := resolveURL(firstHref(post, src.Selector("link", "a")), src.URL)
		if client.Seen(url) {
			return true
		}

		desc := description(post, src.Selector("content", ".content, .excerpt, p"), 3, 600)
		if desc == "" && url != src.URL {
			desc = fetchBody(ctx, client, url, 800)
		}

		if !matchesKeywords(src.Keywords, title+" "+desc) {
			return true
		}

		items = append(items, newItem(src, title, desc, url, map[string]any{
			"article_type":   "blog_post",
			"published_date": publishedDate(post),
			"author":         firstText(post, ".author, .byline, [rel='author']"),
			"tags":           blogTags(post),
			"category":       firstText(post, ".category, .post-category, .cat-links a"),
			"word_count":     len(strings.Fields(desc)),
		}))
		client.MarkSeen(url)
		return len(items) < 15
	})

	slog.Info("blog extraction finished", "source", src.Name, "items", len(items))
	return items, nil
}

func blogTags(post *goquery.Selection) []string {
	var tags []string
	post.Find(".tags a, .post-tags a, .entry-tags a, .tag-links a").Each(func(_ int, s *goquery.Selection) {
		if tag := cleanText(s.Text()); len(tag) > 1 {
			tags = append(tags, tag)
		}
	})
	return uniqStrings(tags)
}

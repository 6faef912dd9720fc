package scrape

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

// SocialStrategy handles community sources. Reddit listing endpoints
// (URLs ending in .json) go through the JSON API shape; everything
// else is treated as a generic HTML forum.
type SocialStrategy struct{}

func (s *SocialStrategy) Extract(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error) {
	if strings.Contains(src.URL, ".json") {
		return s.redditListing(ctx, client, src)
	}
	return s.forum(ctx, client, src)
}

// redditListing is the shape of a reddit hot.json response, reduced to
// the fields the scraper consumes.
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string `json:"title"`
				Selftext    string `json:"selftext"`
				Permalink   string `json:"permalink"`
				URL         string `json:"url"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
				Subreddit   string `json:"subreddit"`
				Author      string `json:"author"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *SocialStrategy) redditListing(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error) {
	var listing redditListing
	if err := client.FetchJSON(ctx, src.URL, &listing); err != nil {
		return nil, err
	}

	var items []Item
	for _, child := range listing.Data.Children {
		if len(items) >= 10 {
			break
		}
		post := child.Data

		title := cleanText(post.Title)
		if len(title) < 5 {
			continue
		}
		url := post.URL
		if post.Permalink != "" {
			url = "https://www.reddit.com" + post.Permalink
		}
		if url == "" {
			url = src.URL
		}
		if client.Seen(url) {
			continue
		}
		desc := truncate(cleanText(post.Selftext), 400)
		if !matchesKeywords(src.Keywords, title+" "+desc) {
			continue
		}

		items = append(items, newItem(src, title, desc, url, map[string]any{
			"article_type": "social_post",
			"platform":     "reddit",
			"subreddit":    post.Subreddit,
			"author":       post.Author,
			"upvotes":      post.Score,
			"comments":     post.NumComments,
			// comments weigh double: discussion signals community concern
			"engagement": post.Score + 2*post.NumComments,
		}))
		client.MarkSeen(url)
	}

	slog.Info("reddit extraction finished", "source", src.Name, "items", len(items))
	return items, nil
}

func (s *SocialStrategy) forum(ctx context.Context, client *fetch.Client, src source.Descriptor) ([]Item, error) {
	doc, err := client.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	var items []Item
	doc.Find(src.Selector("article", ".post, .topic, .thread")).EachWithBreak(func(_ int, post *goquery.Selection) bool {
		title := firstText(post, src.Selector("title", "h2, h3, .title"))
		if len(title) < 5 {
			return true
		}

		url := resolveURL(firstHref(post, src.Selector("link", "a")), src.URL)
		if client.Seen(url) {
			return true
		}

		desc := description(post, src.Selector("content", ".content, .message, p"), 3, 400)
		if !matchesKeywords(src.Keywords, title+" "+desc) {
			return true
		}

		items = append(items, newItem(src, title, desc, url, map[string]any{
			"article_type": "forum_post",
			"platform":     "forum",
			"author":       firstText(post, ".author, .username, .poster"),
		}))
		client.MarkSeen(url)
		return len(items) < 15
	})

	slog.Info("forum extraction finished", "source", src.Name, "items", len(items))
	return items, nil
}

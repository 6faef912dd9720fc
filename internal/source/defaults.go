package source

import "riskradar/internal/common"

// Category groups sources for presentation.
type Category struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Sources     []string `json:"sources"`
}

// DefaultCatalog returns the preconfigured monitoring sources. Callers
// receive a fresh copy and may mutate it freely.
func DefaultCatalog() []Descriptor {
	return append([]Descriptor(nil), defaultCatalog...)
}

// Categories returns the default catalog grouped for UIs and reports.
func Categories() map[string]Category {
	out := make(map[string]Category, len(defaultCategories))
	for k, v := range defaultCategories {
		out[k] = v
	}
	return out
}

// ByCategory returns the default sources belonging to one category.
func ByCategory(category string) []Descriptor {
	cat, ok := defaultCategories[category]
	if !ok {
		return nil
	}
	names := make(map[string]bool, len(cat.Sources))
	for _, n := range cat.Sources {
		names[n] = true
	}
	var out []Descriptor
	for _, s := range defaultCatalog {
		if names[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

var defaultCatalog = []Descriptor{
	{
		Name:     "Reuters Security News",
		Type:     common.SourceNews,
		URL:      "https://www.reuters.com/technology/cybersecurity/",
		Keywords: []string{"cybersecurity", "data breach", "hack", "malware", "ransomware"},
		Selectors: map[string]string{
			"article": "article",
			"title":   "h3 a",
			"content": "div[data-testid='paragraph']",
			"link":    "h3 a",
		},
		RateLimit:   30,
		Reliability: 0.95,
		Enabled:     true,
	},
	{
		Name:     "Associated Press Security",
		Type:     common.SourceNews,
		URL:      "https://apnews.com/hub/technology",
		Keywords: []string{"security breach", "cyber attack", "hacking", "privacy"},
		Selectors: map[string]string{
			"article": "div.FeedCard",
			"title":   "h1, h2, h3",
			"content": "div.RichTextStoryBody",
			"link":    "a",
		},
		RateLimit:   30,
		Reliability: 0.93,
		Enabled:     true,
	},
	{
		Name:     "BBC Technology Security",
		Type:     common.SourceNews,
		URL:      "https://www.bbc.com/news/technology",
		Keywords: []string{"cyber", "security", "breach", "attack", "threat"},
		Selectors: map[string]string{
			"article": "div[data-testid='edinburgh-article']",
			"title":   "h1, h2",
			"content": "div[data-component='text-block']",
			"link":    "a",
		},
		RateLimit:   30,
		Reliability: 0.90,
		Enabled:     true,
	},
	{
		Name:     "TechCrunch Security",
		Type:     common.SourceNews,
		URL:      "https://techcrunch.com/category/security/",
		Keywords: []string{"startup security", "tech breach", "privacy", "encryption"},
		Selectors: map[string]string{
			"article": "article",
			"title":   "h2 a",
			"content": "div.article-content",
			"link":    "h2 a",
		},
		RateLimit:   20,
		Reliability: 0.85,
		Enabled:     false,
	},
	{
		Name:     "CISA Security Advisories",
		Type:     common.SourceGovernment,
		URL:      "https://www.cisa.gov/news-events/cybersecurity-advisories",
		Keywords: []string{"vulnerability", "advisory", "alert", "critical"},
		Selectors: map[string]string{
			"article": "div.c-teaser",
			"title":   "h3 a",
			"content": "div.c-teaser__summary",
			"link":    "h3 a",
		},
		RateLimit:   60,
		Reliability: 0.98,
		Enabled:     true,
	},
	{
		Name:     "US-CERT Alerts",
		Type:     common.SourceGovernment,
		URL:      "https://www.cisa.gov/news-events/alerts",
		Keywords: []string{"security alert", "threat", "incident", "response"},
		Selectors: map[string]string{
			"article": "div.views-row",
			"title":   "h3 a",
			"content": "div.field-content",
			"link":    "h3 a",
		},
		RateLimit:   60,
		Reliability: 0.97,
		Enabled:     true,
	},
	{
		Name:        "Reddit r/cybersecurity",
		Type:        common.SourceSocial,
		URL:         "https://www.reddit.com/r/cybersecurity/hot.json",
		Keywords:    []string{"breach", "vulnerability", "exploit", "incident"},
		RateLimit:   60,
		Reliability: 0.70,
		Enabled:     false,
	},
	{
		Name:        "Reddit r/netsec",
		Type:        common.SourceSocial,
		URL:         "https://www.reddit.com/r/netsec/hot.json",
		Keywords:    []string{"security research", "exploit", "vulnerability", "analysis"},
		RateLimit:   60,
		Reliability: 0.75,
		Enabled:     true,
	},
	{
		Name:     "Krebs on Security",
		Type:     common.SourceBlog,
		URL:      "https://krebsonsecurity.com/",
		Keywords: []string{"investigation", "fraud", "cybercrime", "breach"},
		Selectors: map[string]string{
			"article": "article",
			"title":   "h1, h2",
			"content": "div.entry-content",
			"link":    "h1 a, h2 a",
		},
		RateLimit:   30,
		Reliability: 0.92,
		Enabled:     true,
	},
	{
		Name:     "Threatpost Security News",
		Type:     common.SourceNews,
		URL:      "https://threatpost.com/",
		Keywords: []string{"threat intelligence", "malware", "apt", "zero-day"},
		Selectors: map[string]string{
			"article": "article",
			"title":   "h2 a",
			"content": "div.entry-content",
			"link":    "h2 a",
		},
		RateLimit:   20,
		Reliability: 0.88,
		Enabled:     false,
	},
}

var defaultCategories = map[string]Category{
	"news": {
		Label:       "News Sources",
		Description: "Major news outlets covering cybersecurity",
		Sources: []string{
			"Reuters Security News", "Associated Press Security",
			"BBC Technology Security", "TechCrunch Security", "Threatpost Security News",
		},
	},
	"government": {
		Label:       "Government Sources",
		Description: "Official government security advisories",
		Sources:     []string{"CISA Security Advisories", "US-CERT Alerts"},
	},
	"social": {
		Label:       "Social Media & Forums",
		Description: "Community discussions and security forums",
		Sources:     []string{"Reddit r/cybersecurity", "Reddit r/netsec"},
	},
	"blogs": {
		Label:       "Security Blogs",
		Description: "Expert security analysis and research",
		Sources:     []string{"Krebs on Security"},
	},
}

package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"riskradar/internal/common"
	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

func testClient() *fetch.Client {
	return fetch.NewClient(600, 5*time.Second)
}

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		typ  common.SourceType
		want string
	}{
		{common.SourceNews, "*scrape.NewsStrategy"},
		{common.SourceGovernment, "*scrape.GovernmentStrategy"},
		{common.SourceSocial, "*scrape.SocialStrategy"},
		{common.SourceForum, "*scrape.SocialStrategy"},
		{common.SourceBlog, "*scrape.BlogStrategy"},
		{"mystery", "*scrape.GenericStrategy"},
	}
	for _, tt := range tests {
		s := StrategyFor(tt.typ)
		if got := typeName(s); got != tt.want {
			t.Errorf("StrategyFor(%s) = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *NewsStrategy:
		return "*scrape.NewsStrategy"
	case *GovernmentStrategy:
		return "*scrape.GovernmentStrategy"
	case *SocialStrategy:
		return "*scrape.SocialStrategy"
	case *BlogStrategy:
		return "*scrape.BlogStrategy"
	default:
		return "*scrape.GenericStrategy"
	}
}

func TestNewsExtract(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<article>
			<h2>Major ransomware outbreak hits hospital chain</h2>
			<a href="/story/1">read</a>
			<p>Attackers encrypted clinical systems across three hospitals and demanded payment over the weekend.</p>
		</article>
		<article>
			<h2>short</h2>
			<a href="/story/2">read</a>
			<p>This container must be skipped because its title is under the minimum length.</p>
		</article>
		<article>
			<h2>Local bakery wins regional bread competition</h2>
			<a href="/story/3">read</a>
			<p>Nothing security relevant happens in this delightful but irrelevant article about baked goods.</p>
		</article>
	</body></html>`)

	src := source.Descriptor{
		Name:        "Test News",
		Type:        common.SourceNews,
		URL:         srv.URL,
		Keywords:    []string{"ransomware"},
		Reliability: 0.9,
		Enabled:     true,
	}

	items, err := (&NewsStrategy{}).Extract(context.Background(), testClient(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	item := items[0]
	if item.Title != "Major ransomware outbreak hits hospital chain" {
		t.Errorf("Title = %q", item.Title)
	}
	if want := srv.URL + "/story/1"; item.URL != want {
		t.Errorf("URL = %q, want %q", item.URL, want)
	}
	if item.SourceType != common.SourceNews {
		t.Errorf("SourceType = %s, want news", item.SourceType)
	}
	if diff := cmp.Diff([]string{"ransomware"}, item.MatchedKeywords); diff != "" {
		t.Errorf("MatchedKeywords mismatch (-want +got):\n%s", diff)
	}
	if item.Metadata["article_type"] != "news_article" {
		t.Errorf("article_type = %v, want news_article", item.Metadata["article_type"])
	}
}

func TestNewsExtractSkipsSeenURLs(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<article>
			<h2>Major ransomware outbreak hits hospital chain</h2>
			<a href="/story/1">read</a>
			<p>Attackers encrypted clinical systems across three hospitals and demanded payment over the weekend.</p>
		</article>
	</body></html>`)

	src := source.Descriptor{Name: "Test News", Type: common.SourceNews, URL: srv.URL}
	client := testClient()

	first, err := (&NewsStrategy{}).Extract(context.Background(), client, src)
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first pass items = %d, want 1", len(first))
	}
	second, err := (&NewsStrategy{}).Extract(context.Background(), client, src)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second pass items = %d, want 0", len(second))
	}
}

func TestGovernmentExtract(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<div class="c-teaser">
			<h3><a href="/advisory/aa24-001">Critical vulnerability in widget firmware (CVE-2024-0001)</a></h3>
			<div class="c-teaser__summary">CISA urges immediate patching. CVSS: 9.8. Affects WidgetOS 2.x deployments worldwide.</div>
		</div>
	</body></html>`)

	src := source.Descriptor{
		Name:     "Test Advisories",
		Type:     common.SourceGovernment,
		URL:      srv.URL,
		Keywords: []string{"vulnerability"},
	}

	items, err := (&GovernmentStrategy{}).Extract(context.Background(), testClient(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	item := items[0]
	if item.Metadata["severity"] != string(common.SeverityCritical) {
		t.Errorf("severity = %v, want critical", item.Metadata["severity"])
	}
	ids, _ := item.Metadata["advisory_ids"].([]string)
	if len(ids) == 0 || ids[0] != "CVE-2024-0001" {
		t.Errorf("advisory_ids = %v, want CVE-2024-0001 first", ids)
	}
}

func TestAdvisorySeverity(t *testing.T) {
	tests := []struct {
		text string
		want common.SeverityLevel
	}{
		{"Emergency directive for urgent remediation", common.SeverityCritical},
		{"Important update for a severe flaw", common.SeverityHigh},
		{"Moderate impact on legacy systems", common.SeverityMedium},
		{"Minor issue in logging output", common.SeverityLow},
		{"Vulnerability scored CVSS: 9.3", common.SeverityCritical},
		{"Vulnerability scored CVSS 7.5", common.SeverityHigh},
		{"Vulnerability scored cvss: 5.0", common.SeverityMedium},
		{"Vulnerability scored CVSS 2.1", common.SeverityLow},
		{"An advisory with no clues at all", common.SeverityMedium},
	}
	for _, tt := range tests {
		if got := advisorySeverity(tt.text); got != tt.want {
			t.Errorf("advisorySeverity(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestAdvisoryIDs(t *testing.T) {
	got := advisoryIDs("See CVE-2024-1234, alert AA24-109A and note VU#123456; also cve-2024-1234 again")
	want := []string{"CVE-2024-1234", "AA24-109A", "VU#123456"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("advisoryIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestSocialRedditListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"children": [
			{"data": {"title": "Active exploit for new auth bypass", "selftext": "PoC circulating, patch now.",
				"permalink": "/r/netsec/comments/abc/x/", "score": 120, "num_comments": 40,
				"subreddit": "netsec", "author": "researcher"}},
			{"data": {"title": "hm", "selftext": "too short to keep", "permalink": "/r/netsec/comments/def/y/",
				"score": 5, "num_comments": 1, "subreddit": "netsec", "author": "lurker"}}
		]}}`))
	}))
	defer srv.Close()

	src := source.Descriptor{
		Name:     "Test Reddit",
		Type:     common.SourceSocial,
		URL:      srv.URL + "/r/netsec/hot.json",
		Keywords: []string{"exploit"},
	}

	items, err := (&SocialStrategy{}).Extract(context.Background(), testClient(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	item := items[0]
	if item.Metadata["platform"] != "reddit" {
		t.Errorf("platform = %v, want reddit", item.Metadata["platform"])
	}
	if got := item.Metadata["engagement"]; got != 200 {
		t.Errorf("engagement = %v, want 200 (120 upvotes + 2*40 comments)", got)
	}
	if item.URL != "https://www.reddit.com/r/netsec/comments/abc/x/" {
		t.Errorf("URL = %q", item.URL)
	}
}

func TestBlogExtract(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<article>
			<h2>Inside a large-scale card fraud investigation</h2>
			<a href="/2024/fraud-ring">permalink</a>
			<p class="excerpt">How a cybercrime ring monetized stolen cards across three continents before being dismantled.</p>
			<span class="author">B. Writer</span>
			<div class="tags"><a>fraud</a><a>carding</a></div>
		</article>
	</body></html>`)

	src := source.Descriptor{
		Name:     "Test Blog",
		Type:     common.SourceBlog,
		URL:      srv.URL,
		Keywords: []string{"fraud"},
	}

	items, err := (&BlogStrategy{}).Extract(context.Background(), testClient(), src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	item := items[0]
	if item.Metadata["article_type"] != "blog_post" {
		t.Errorf("article_type = %v, want blog_post", item.Metadata["article_type"])
	}
	if item.Metadata["author"] != "B. Writer" {
		t.Errorf("author = %v, want B. Writer", item.Metadata["author"])
	}
	tags, _ := item.Metadata["tags"].([]string)
	if diff := cmp.Diff([]string{"fraud", "carding"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if wc, _ := item.Metadata["word_count"].(int); wc == 0 {
		t.Error("word_count = 0, want > 0")
	}
}

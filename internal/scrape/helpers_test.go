package scrape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveURL(t *testing.T) {
	const listing = "https://example.com/news/security"
	tests := []struct {
		href string
		want string
	}{
		{"https://other.example.org/story", "https://other.example.org/story"},
		{"http://other.example.org/story", "http://other.example.org/story"},
		{"/story/42", "https://example.com/story/42"},
		{"story/42", listing},
		{"", listing},
	}
	for _, tt := range tests {
		if got := resolveURL(tt.href, listing); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	got := cleanText("  a\n\tmessy\r\n   string ")
	if got != "a messy string" {
		t.Errorf("cleanText = %q, want %q", got, "a messy string")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789" {
		t.Errorf("truncate = %q, want first 10 bytes", got)
	}
	// never split a multibyte rune
	if got := truncate("日本語", 4); got != "日" {
		t.Errorf("truncate on rune boundary = %q, want %q", got, "日")
	}
}

func TestMatchedKeywords(t *testing.T) {
	got := matchedKeywords(
		[]string{"Ransomware", "zero-day", "phishing"},
		"A new RANSOMWARE campaign exploits a zero-day flaw",
	)
	want := []string{"Ransomware", "zero-day"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("matchedKeywords mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchesKeywordsEmptyListMatchesAll(t *testing.T) {
	if !matchesKeywords(nil, "anything at all") {
		t.Error("matchesKeywords(nil) = false, want true")
	}
	if matchesKeywords([]string{"breach"}, "nothing relevant here") {
		t.Error("matchesKeywords = true, want false")
	}
}

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchParsesHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><h1>Advisory Feed</h1></body></html>`))
	}))
	defer srv.Close()

	client := NewClient(60, 5*time.Second)
	doc, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Advisory Feed" {
		t.Errorf("h1 = %q, want %q", got, "Advisory Feed")
	}
}

func TestFetchSetsUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	client := NewClient(60, 5*time.Second)
	if _, err := client.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if ua == "" || ua == "Go-http-client/1.1" {
		t.Errorf("User-Agent = %q, want a rotated browser agent", ua)
	}
}

func TestFetchClassifiesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(60, 5*time.Second)
	_, err := client.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Fetch: want error for 500 response")
	}
	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("error type = %T, want *fetch.Error", err)
	}
	if ferr.Kind != ErrNetwork {
		t.Errorf("Kind = %s, want %s", ferr.Kind, ErrNetwork)
	}
}

func TestFetchJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"kind": "Listing"}`))
	}))
	defer srv.Close()

	client := NewClient(60, 5*time.Second)
	var payload struct {
		Kind string `json:"kind"`
	}
	if err := client.FetchJSON(context.Background(), srv.URL, &payload); err != nil {
		t.Fatalf("FetchJSON: %v", err)
	}
	if payload.Kind != "Listing" {
		t.Errorf("Kind = %q, want Listing", payload.Kind)
	}
}

func TestSeenSet(t *testing.T) {
	client := NewClient(60, time.Second)

	url := "https://example.com/advisory/1"
	if client.Seen(url) {
		t.Fatal("Seen before MarkSeen = true, want false")
	}
	client.MarkSeen(url)
	if !client.Seen(url) {
		t.Fatal("Seen after MarkSeen = false, want true")
	}
	if client.Seen("https://example.com/advisory/2") {
		t.Fatal("Seen for unmarked URL = true, want false")
	}
	if got := client.SeenCount(); got != 1 {
		t.Errorf("SeenCount = %d, want 1", got)
	}
}

package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"riskradar/internal/common"
	"riskradar/internal/fetch"
	"riskradar/internal/source"
)

const listingPage = `<html><body>
	<article>
		<h2>Major ransomware outbreak hits hospital chain</h2>
		<a href="/story/1">read</a>
		<p>Attackers encrypted clinical systems across three hospitals and demanded payment over the weekend.</p>
	</article>
</body></html>`

func TestRunWithNoEnabledSources(t *testing.T) {
	c := NewCoordinator(0, 0)
	result := c.Run(context.Background(), []source.Descriptor{
		{Name: "disabled", Type: common.SourceNews, URL: "https://example.com", Enabled: false},
	})
	if result.Status != "completed" {
		t.Errorf("Status = %q, want completed", result.Status)
	}
	if result.SourceCount != 0 || result.Successful != 0 || result.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want all zero",
			result.SourceCount, result.Successful, result.Failed)
	}
}

func TestRunIsolatesFailingSource(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingPage))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	sources := []source.Descriptor{
		{Name: "good news", Type: common.SourceNews, URL: good.URL, Enabled: true},
		{Name: "bad news", Type: common.SourceNews, URL: bad.URL, Enabled: true},
	}

	c := NewCoordinator(2, 10*time.Second)
	c.SetClientFactory(func(src source.Descriptor) *fetch.Client {
		return fetch.NewClient(600, 5*time.Second)
	})
	result := c.Run(context.Background(), sources)

	if result.Successful != 1 {
		t.Errorf("Successful = %d, want 1", result.Successful)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(result.Items) == 0 {
		t.Error("Items empty, want items from the good source")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "bad news") {
		t.Errorf("Errors = %v, want one entry naming the failed source", result.Errors)
	}

	stats := c.Status().Stats
	if stats.Runs != 1 {
		t.Errorf("Runs = %d, want 1", stats.Runs)
	}
	if stats.Successful != 1 || stats.Failed != 1 {
		t.Errorf("stats = %d/%d, want 1/1", stats.Successful, stats.Failed)
	}
	if stats.SourcesByType[common.SourceNews] != 2 {
		t.Errorf("SourcesByType[news] = %d, want 2", stats.SourcesByType[common.SourceNews])
	}
}

func TestRunRespectsTaskTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.Write([]byte(listingPage))
	}))
	defer slow.Close()

	c := NewCoordinator(1, 100*time.Millisecond)
	c.SetClientFactory(func(src source.Descriptor) *fetch.Client {
		return fetch.NewClient(600, 5*time.Second)
	})
	result := c.Run(context.Background(), []source.Descriptor{
		{Name: "slow", Type: common.SourceNews, URL: slow.URL, Enabled: true},
	})
	if result.Failed != 1 {
		t.Fatalf("Failed = %d, want 1 (timeout)", result.Failed)
	}
}

func TestStatusAndStop(t *testing.T) {
	c := NewCoordinator(3, time.Second)
	st := c.Status()
	if st.Running {
		t.Error("Running = true before any run")
	}
	if len(st.ActiveTasks) != 0 {
		t.Errorf("ActiveTasks = %v, want empty", st.ActiveTasks)
	}
	c.Stop()
	if c.Status().Running {
		t.Error("Running = true after Stop")
	}
}

func TestCoordinatorsAreIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	src := []source.Descriptor{{Name: "n", Type: common.SourceNews, URL: srv.URL, Enabled: true}}

	a := NewCoordinator(1, 10*time.Second)
	b := NewCoordinator(1, 10*time.Second)
	for _, c := range []*Coordinator{a, b} {
		c.SetClientFactory(func(source.Descriptor) *fetch.Client {
			return fetch.NewClient(600, 5*time.Second)
		})
	}

	done := make(chan RunResult, 2)
	go func() { done <- a.Run(context.Background(), src) }()
	go func() { done <- b.Run(context.Background(), src) }()
	for i := 0; i < 2; i++ {
		if r := <-done; r.Successful != 1 {
			t.Errorf("run %d: Successful = %d, want 1", i, r.Successful)
		}
	}
	if a.Status().Stats.Runs != 1 || b.Status().Stats.Runs != 1 {
		t.Error("each coordinator should record exactly one run")
	}
}

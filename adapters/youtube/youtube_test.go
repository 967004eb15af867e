package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/clock"
	"github.com/topiclens/topiclens/adapters/memory"
	"github.com/topiclens/topiclens/domain/provider"
)

func testClient(t *testing.T, baseURL string, limit int64) (*Client, *memory.Ledger) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	ledger := memory.NewLedger(map[string]int64{provider.YouTube: limit}, clk)
	c := New(Config{BaseURL: baseURL, Timeout: 5 * time.Second}, ledger, clk, zerolog.Nop())
	return c, ledger
}

// fakeAPI serves a minimal Data API: every search returns the given ids,
// the details call echoes whatever ids were asked for.
func fakeAPI(t *testing.T, searchIDs []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]any, 0, len(searchIDs))
		for _, id := range searchIDs {
			items = append(items, map[string]any{"id": map[string]string{"videoId": id}})
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		var items []map[string]any
		for i, id := range splitIDs(r.URL.Query().Get("id")) {
			items = append(items, map[string]any{
				"id": id,
				"snippet": map[string]any{
					"title":        fmt.Sprintf("Go Tutorial Part %d", i+1),
					"description":  "Learn the basics.",
					"channelTitle": "GopherTube",
					"publishedAt":  "2024-05-01T00:00:00Z",
					"thumbnails":   map[string]any{"medium": map[string]string{"url": "http://t/" + id}},
				},
				"statistics": map[string]string{
					"viewCount":    "10000",
					"likeCount":    "500",
					"commentCount": "40",
				},
				"contentDetails": map[string]string{"duration": "PT15M30S"},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	})
	return httptest.NewServer(mux)
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func TestSearchDemoWithoutKey(t *testing.T) {
	c, ledger := testClient(t, "http://127.0.0.1:1", 100)

	res, err := c.Search(context.Background(), "golang", "", 60)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.IsDemo {
		t.Fatal("expected demo result without a key")
	}
	if len(res.Videos) != len(demoSeeds) {
		t.Fatalf("got %d demo videos, want %d", len(res.Videos), len(demoSeeds))
	}
	if res.Error != provider.ReasonNone {
		t.Fatalf("unexpected downgrade reason %q", res.Error)
	}
	if used := ledger.Snapshot()[provider.YouTube].Used; used != 0 {
		t.Fatalf("demo path consumed quota: used=%d", used)
	}
	for _, v := range res.Videos {
		if v.QualityScore == 0 || v.DurationText == "" {
			t.Fatalf("demo video %s not analyzed: %+v", v.ID, v)
		}
	}
}

func TestSearchLiveUsageMatchesBatch(t *testing.T) {
	srv := fakeAPI(t, []string{"vid-a", "vid-b", "vid-c"})
	defer srv.Close()

	c, ledger := testClient(t, srv.URL, 1000)
	res, err := c.Search(context.Background(), "golang", "key", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.IsDemo {
		t.Fatal("live search reported demo")
	}
	if res.TotalFound != 3 {
		t.Fatalf("TotalFound = %d, want 3", res.TotalFound)
	}
	// Usage is the fetched batch size, not the reservation.
	if used := ledger.Snapshot()[provider.YouTube].Used; used != 3 {
		t.Fatalf("used = %d, want 3", used)
	}
	if res.Analytics.TotalVideos != 3 {
		t.Fatalf("analytics over %d videos, want 3", res.Analytics.TotalVideos)
	}
	if res.Videos[0].Duration != 930 {
		t.Fatalf("duration = %d, want 930", res.Videos[0].Duration)
	}
}

func TestSearchDeduplicatesAcrossQueries(t *testing.T) {
	// Every query returns the same two ids; the result must contain each once.
	srv := fakeAPI(t, []string{"dup-1", "dup-2"})
	defer srv.Close()

	c, _ := testClient(t, srv.URL, 1000)
	res, err := c.Search(context.Background(), "golang", "key", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	seen := make(map[string]int)
	for _, v := range res.Videos {
		seen[v.ID]++
	}
	if seen["dup-1"] != 1 || seen["dup-2"] != 1 {
		t.Fatalf("duplicate ids in result: %v", seen)
	}
}

func TestSearchUpstreamErrorDowngrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, ledger := testClient(t, srv.URL, 1000)
	res, err := c.Search(context.Background(), "golang", "key", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.IsDemo || res.Error != provider.ReasonUpstream {
		t.Fatalf("got demo=%v reason=%q, want upstream demo", res.IsDemo, res.Error)
	}
	// The whole reservation is returned on failure.
	if used := ledger.Snapshot()[provider.YouTube].Used; used != 0 {
		t.Fatalf("used = %d after failed call, want 0", used)
	}
}

func TestSearchQuotaExceeded(t *testing.T) {
	c, _ := testClient(t, "http://127.0.0.1:1", 3)

	_, err := c.Search(context.Background(), "golang", "key", 10)
	if !errors.Is(err, provider.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestSearchClampsBatchSize(t *testing.T) {
	srv := fakeAPI(t, []string{"vid-a"})
	defer srv.Close()

	c, ledger := testClient(t, srv.URL, 1000)
	if _, err := c.Search(context.Background(), "golang", "key", 500); err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Only one video exists, so everything above it is released again.
	if used := ledger.Snapshot()[provider.YouTube].Used; used != 1 {
		t.Fatalf("used = %d, want 1", used)
	}
}

func TestDescriptionTruncatedOnRuneBoundary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"id": map[string]string{"videoId": "vid-jp"}}},
		})
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"id": "vid-jp",
				"snippet": map[string]any{
					"title":        "Go 入門",
					"description":  strings.Repeat("日", 300),
					"channelTitle": "GopherTube",
					"publishedAt":  "2024-05-01T00:00:00Z",
				},
				"statistics":     map[string]string{"viewCount": "100"},
				"contentDetails": map[string]string{"duration": "PT15M"},
			}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := testClient(t, srv.URL, 1000)
	res, err := c.Search(context.Background(), "golang", "key", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	desc := res.Videos[0].Description
	if !utf8.ValidString(desc) {
		t.Fatalf("description is not valid UTF-8: %q", desc)
	}
	if !strings.HasSuffix(desc, "...") {
		t.Fatalf("long description not truncated: %q", desc)
	}
	if got := len([]rune(strings.TrimSuffix(desc, "..."))); got != descriptionLimit {
		t.Fatalf("kept %d runes, want %d", got, descriptionLimit)
	}
}

func TestSearchQueriesBounded(t *testing.T) {
	for _, topic := range []string{"golang", "data engineering", "python programming"} {
		qs := searchQueries(topic)
		if len(qs) == 0 || len(qs) > maxQueries {
			t.Fatalf("topic %q produced %d queries", topic, len(qs))
		}
	}
}

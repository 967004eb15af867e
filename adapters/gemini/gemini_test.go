package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/clock"
	"github.com/topiclens/topiclens/adapters/memory"
	"github.com/topiclens/topiclens/domain/provider"
)

func testClient(t *testing.T, baseURL string, limit int64) (*Client, *memory.Ledger) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	ledger := memory.NewLedger(map[string]int64{provider.Gemini: limit}, clk)
	c := New(Config{BaseURL: baseURL, Timeout: 5 * time.Second}, ledger, clk, zerolog.Nop())
	return c, ledger
}

// chatServer fakes the OpenAI-compatible chat-completions endpoint.
func chatServer(t *testing.T, content string, tokens int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "gemini-2.0-flash",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"total_tokens": tokens},
		})
	}))
}

func TestQueryDemoWithoutKey(t *testing.T) {
	c, ledger := testClient(t, "http://127.0.0.1:1", 100)

	res, err := c.Query(context.Background(), "golang", "prompt text", "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !res.IsDemo {
		t.Fatal("expected demo result without a key")
	}
	if !strings.Contains(res.Content, "golang") {
		t.Fatal("demo content does not mention the topic")
	}
	if used := ledger.Snapshot()[provider.Gemini].Used; used != 0 {
		t.Fatalf("demo path consumed quota: used=%d", used)
	}
}

func TestQueryLive(t *testing.T) {
	srv := chatServer(t, "## Curated Resources\n\n1. ...", 321)
	defer srv.Close()

	c, ledger := testClient(t, srv.URL, 100)
	res, err := c.Query(context.Background(), "golang", "prompt text", "key")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if res.IsDemo {
		t.Fatal("live call reported demo")
	}
	if res.TokensUsed != 321 {
		t.Fatalf("TokensUsed = %d, want 321", res.TokensUsed)
	}
	if used := ledger.Snapshot()[provider.Gemini].Used; used != 1 {
		t.Fatalf("used = %d, want 1", used)
	}
}

func TestQueryUpstreamErrorDowngrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	c, ledger := testClient(t, srv.URL, 100)
	res, err := c.Query(context.Background(), "golang", "prompt text", "key")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !res.IsDemo || res.Error != provider.ReasonUpstream {
		t.Fatalf("got demo=%v reason=%q, want upstream demo", res.IsDemo, res.Error)
	}
	if used := ledger.Snapshot()[provider.Gemini].Used; used != 0 {
		t.Fatalf("failed call left quota used=%d", used)
	}
}

func TestQueryTimeoutDowngrades(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	ledger := memory.NewLedger(map[string]int64{provider.Gemini: 100}, clk)
	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, ledger, clk, zerolog.Nop())

	res, err := c.Query(context.Background(), "golang", "prompt text", "key")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !res.IsDemo || res.Error != provider.ReasonTimeout {
		t.Fatalf("got demo=%v reason=%q, want timeout demo", res.IsDemo, res.Error)
	}
	if used := ledger.Snapshot()[provider.Gemini].Used; used != 0 {
		t.Fatalf("timed-out call left quota used=%d", used)
	}
}

func TestQueryQuotaExceeded(t *testing.T) {
	c, ledger := testClient(t, "http://127.0.0.1:1", 1)
	ledger.RecordUsage(provider.Gemini, 1)

	_, err := c.Query(context.Background(), "golang", "prompt text", "key")
	if !errors.Is(err, provider.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestDemoContentFallsBackOnEmptyTopic(t *testing.T) {
	if got := demoContent("   "); !strings.Contains(got, "the requested topic") {
		t.Fatalf("blank topic not substituted: %q", got)
	}
}

package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/clock"
	"github.com/topiclens/topiclens/adapters/memory"
	"github.com/topiclens/topiclens/adapters/metrics"
	"github.com/topiclens/topiclens/domain/prompt"
	"github.com/topiclens/topiclens/domain/provider"
)

type stubAI struct {
	result    provider.AIResult
	err       error
	gotKey    string
	gotPrompt string
}

func (s *stubAI) Query(_ context.Context, _, promptText, apiKey string) (provider.AIResult, error) {
	s.gotKey = apiKey
	s.gotPrompt = promptText
	return s.result, s.err
}

type stubVideos struct {
	result provider.VideoResult
	err    error
	gotMax int
}

func (s *stubVideos) Search(_ context.Context, _, _ string, maxResults int) (provider.VideoResult, error) {
	s.gotMax = maxResults
	return s.result, s.err
}

func testService(t *testing.T, ai *stubAI, vids *stubVideos) (*Service, *memory.Ledger) {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	ledger := memory.NewLedger(map[string]int64{
		provider.Gemini:  1000,
		provider.YouTube: 10000,
	}, clk)
	creds := memory.NewCredentialStore("gkey", "ykey")
	mc := metrics.NewWithRegistry(prometheus.NewRegistry())
	pool := NewPool(2, 8, mc, zerolog.Nop())
	t.Cleanup(pool.Close)
	svc := NewService(ledger, creds, ai, vids, pool, clk, mc, zerolog.Nop())
	return svc, ledger
}

func TestGeneratePrompt(t *testing.T) {
	svc, _ := testService(t, &stubAI{}, &stubVideos{})

	art, err := svc.GeneratePrompt(context.Background(), "machine learning")
	if err != nil {
		t.Fatalf("GeneratePrompt: %v", err)
	}
	if art.Topic != "machine learning" {
		t.Errorf("Topic = %q", art.Topic)
	}
	if !strings.Contains(art.Prompt, "machine learning") {
		t.Error("prompt does not mention the topic")
	}
	if art.WordCount == 0 || art.CharacterCount == 0 {
		t.Errorf("empty counts: %+v", art)
	}
}

func TestGeneratePromptEmptyTopic(t *testing.T) {
	svc, _ := testService(t, &stubAI{}, &stubVideos{})

	_, err := svc.GeneratePrompt(context.Background(), "   ")
	if !errors.Is(err, prompt.ErrEmptyTopic) {
		t.Fatalf("err = %v, want ErrEmptyTopic", err)
	}
}

func TestQueryAIPassesStoredKey(t *testing.T) {
	ai := &stubAI{result: provider.AIResult{Content: "answer", TokensUsed: 7}}
	svc, _ := testService(t, ai, &stubVideos{})

	res, err := svc.QueryAI(context.Background(), "golang", "", "")
	if err != nil {
		t.Fatalf("QueryAI: %v", err)
	}
	if ai.gotKey != "gkey" {
		t.Errorf("gateway got key %q, want stored key", ai.gotKey)
	}
	// The provider result passes through unwrapped.
	if res.Content != "answer" || res.TokensUsed != 7 {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(ai.gotPrompt, "golang") {
		t.Errorf("gateway did not receive the built prompt: %q", ai.gotPrompt)
	}
}

func TestQueryAIRequestKeyOverrides(t *testing.T) {
	ai := &stubAI{}
	svc, _ := testService(t, ai, &stubVideos{})

	if _, err := svc.QueryAI(context.Background(), "golang", "", "caller-key"); err != nil {
		t.Fatalf("QueryAI: %v", err)
	}
	if ai.gotKey != "caller-key" {
		t.Errorf("gateway got key %q, want caller-key", ai.gotKey)
	}
}

func TestQueryAIQuotaError(t *testing.T) {
	ai := &stubAI{err: provider.ErrQuotaExceeded}
	svc, _ := testService(t, ai, &stubVideos{})

	_, err := svc.QueryAI(context.Background(), "golang", "", "")
	if !errors.Is(err, provider.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestSearchVideosValidatesTopic(t *testing.T) {
	vids := &stubVideos{}
	svc, _ := testService(t, &stubAI{}, vids)

	if _, err := svc.SearchVideos(context.Background(), "", "", 10); !errors.Is(err, prompt.ErrEmptyTopic) {
		t.Fatalf("err = %v, want ErrEmptyTopic", err)
	}
	if vids.gotMax != 0 {
		t.Fatal("gateway called despite invalid topic")
	}
}

func TestQuotasSortedAndComplete(t *testing.T) {
	svc, ledger := testService(t, &stubAI{}, &stubVideos{})
	ledger.RecordUsage(provider.Gemini, 800)

	views := svc.Quotas()
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if views[0].Provider != provider.Gemini || views[1].Provider != provider.YouTube {
		t.Fatalf("unexpected order: %s, %s", views[0].Provider, views[1].Provider)
	}
	g := views[0]
	if g.Used != 800 || g.Remaining != 200 || g.PercentUsed != 80 {
		t.Errorf("gemini view = %+v", g)
	}
	if g.WarningLevel != "approaching" {
		t.Errorf("warning = %q, want approaching", g.WarningLevel)
	}
}

func TestUpdateKeys(t *testing.T) {
	svc, _ := testService(t, &stubAI{}, &stubVideos{})

	updated := svc.UpdateKeys("new-gemini", "")
	if !updated["gemini"] || updated["youtube"] {
		t.Fatalf("updated = %v", updated)
	}
}

func TestExampleTopicsCopies(t *testing.T) {
	svc, _ := testService(t, &stubAI{}, &stubVideos{})

	a := svc.ExampleTopics()
	if len(a) != 10 {
		t.Fatalf("got %d topics", len(a))
	}
	a[0] = "mutated"
	if svc.ExampleTopics()[0] == "mutated" {
		t.Fatal("caller mutation leaked into the shared list")
	}
}

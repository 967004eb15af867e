// Package app wires the domain logic to the gateways. Services hold no
// business rules of their own; they sequence pure domain functions and
// adapter calls.
package app

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/metrics"
	"github.com/topiclens/topiclens/domain/prompt"
	"github.com/topiclens/topiclens/domain/provider"
	"github.com/topiclens/topiclens/domain/quota"
	"github.com/topiclens/topiclens/ports"
)

// Service exposes the application operations behind the HTTP surface.
type Service struct {
	ledger  ports.QuotaLedger
	creds   ports.CredentialStore
	ai      ports.AIProvider
	videos  ports.VideoProvider
	pool    *Pool
	clock   ports.Clock
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// NewService creates the service.
func NewService(
	ledger ports.QuotaLedger,
	creds ports.CredentialStore,
	ai ports.AIProvider,
	videos ports.VideoProvider,
	pool *Pool,
	clk ports.Clock,
	mc *metrics.Collector,
	logger zerolog.Logger,
) *Service {
	return &Service{
		ledger:  ledger,
		creds:   creds,
		ai:      ai,
		videos:  videos,
		pool:    pool,
		clock:   clk,
		metrics: mc,
		logger:  logger.With().Str("component", "service").Logger(),
	}
}

// GeneratePrompt renders the research prompt for a topic. The template
// work runs on the worker pool so request bursts queue instead of
// spawning unbounded concurrent renders.
func (s *Service) GeneratePrompt(ctx context.Context, topic string) (prompt.Artifact, error) {
	var (
		art prompt.Artifact
		err error
	)
	now := s.clock.Now()
	poolErr := s.pool.Do(ctx, func() {
		art, err = prompt.Build(topic, now)
	})
	if poolErr != nil {
		return prompt.Artifact{}, poolErr
	}
	return art, err
}

// QueryAI sends a prompt for a topic to the AI provider and returns the
// provider result as-is. An empty promptText builds the standard
// research prompt; an empty apiKey falls back to the stored credential.
func (s *Service) QueryAI(ctx context.Context, topic, promptText, apiKey string) (provider.AIResult, error) {
	art, err := s.GeneratePrompt(ctx, topic)
	if err != nil {
		return provider.AIResult{}, err
	}
	if promptText == "" {
		promptText = art.Prompt
	}
	if apiKey == "" {
		apiKey = s.creds.GeminiKey()
	}

	start := time.Now()
	res, err := s.ai.Query(ctx, topic, promptText, apiKey)
	s.metrics.ProviderDuration.WithLabelValues(provider.Gemini).Observe(time.Since(start).Seconds())
	s.observeCall(provider.Gemini, res.IsDemo, err)
	return res, err
}

// SearchVideos runs a scored video search. maxResults outside [1, 60]
// is clamped by the gateway; an empty apiKey falls back to the stored
// credential.
func (s *Service) SearchVideos(ctx context.Context, topic, apiKey string, maxResults int) (provider.VideoResult, error) {
	if _, err := prompt.Build(topic, s.clock.Now()); err != nil {
		// Same topic validation as the other operations.
		return provider.VideoResult{}, err
	}
	if apiKey == "" {
		apiKey = s.creds.YouTubeKey()
	}

	start := time.Now()
	res, err := s.videos.Search(ctx, topic, apiKey, maxResults)
	s.metrics.ProviderDuration.WithLabelValues(provider.YouTube).Observe(time.Since(start).Seconds())
	s.observeCall(provider.YouTube, res.IsDemo, err)
	return res, err
}

func (s *Service) observeCall(name string, isDemo bool, err error) {
	outcome := metrics.OutcomeLive
	switch {
	case errors.Is(err, provider.ErrQuotaExceeded):
		outcome = metrics.OutcomeQuota
	case isDemo:
		outcome = metrics.OutcomeDemo
	}
	s.metrics.ProviderCalls.WithLabelValues(name, outcome).Inc()
}

// QuotaView is the reportable state of one provider's daily quota.
type QuotaView struct {
	Provider     string  `json:"provider"`
	Used         int64   `json:"used"`
	Limit        int64   `json:"limit"`
	Remaining    int64   `json:"remaining"`
	PercentUsed  float64 `json:"percent_used"`
	WarningLevel string  `json:"warning_level"`
}

// Quotas reports every provider's current window, sorted by provider
// name for stable output. Gauges are refreshed as a side effect.
func (s *Service) Quotas() []QuotaView {
	snap := s.ledger.Snapshot()
	views := make([]QuotaView, 0, len(snap))
	for name, state := range snap {
		check := quota.Check(state, 0)
		s.metrics.ObserveQuota(name, check.Used, check.Limit)
		views = append(views, QuotaView{
			Provider:     name,
			Used:         check.Used,
			Limit:        check.Limit,
			Remaining:    check.Remaining,
			PercentUsed:  check.PercentUsed,
			WarningLevel: check.WarningLevel.String(),
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Provider < views[j].Provider })
	return views
}

// UpdateKeys replaces the stored provider credentials. Empty values
// leave the existing key untouched. The returned map names which keys
// changed.
func (s *Service) UpdateKeys(geminiKey, youtubeKey string) map[string]bool {
	updated := s.creds.Update(geminiKey, youtubeKey)
	s.logger.Info().
		Bool("gemini", updated["gemini"]).
		Bool("youtube", updated["youtube"]).
		Msg("provider keys updated")
	return updated
}

// KeysConfigured reports which provider credentials are present.
func (s *Service) KeysConfigured() (gemini, youtube bool) {
	return s.creds.GeminiKey() != "", s.creds.YouTubeKey() != ""
}

// exampleTopics is the static starter list shown in the UI dropdown.
var exampleTopics = []string{
	"Prompt Engineering",
	"Python for Data Science",
	"Machine Learning Fundamentals",
	"Web Development with React",
	"DevOps and CI/CD",
	"Cloud Computing with AWS",
	"Cybersecurity Basics",
	"Digital Marketing",
	"Blockchain Technology",
	"Artificial Intelligence Ethics",
}

// ExampleTopics returns a copy of the starter topic list.
func (s *Service) ExampleTopics() []string {
	out := make([]string, len(exampleTopics))
	copy(out, exampleTopics)
	return out
}

// Package discord delivers notification events to a Discord webhook.
// Delivery is fire and forget: every event is posted from its own
// goroutine and failures are logged, never surfaced to the request path.
package discord

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/metrics"
	"github.com/topiclens/topiclens/domain/notify"
	"github.com/topiclens/topiclens/ports"
)

// DefaultTimeout bounds a single webhook delivery.
const DefaultTimeout = 3 * time.Second

// Config configures the sink.
type Config struct {
	WebhookURL string
	Timeout    time.Duration
}

// Sink posts events to a Discord webhook. A Sink with an empty webhook
// URL is valid and drops everything.
type Sink struct {
	url     string
	client  *http.Client
	metrics *metrics.Collector
	logger  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSink creates the sink. In-flight deliveries are joined by Close.
func NewSink(cfg Config, mc *metrics.Collector, logger zerolog.Logger) *Sink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sink{
		url:     cfg.WebhookURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: mc,
		logger:  logger.With().Str("sink", "discord").Logger(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enabled reports whether a webhook URL is configured.
func (s *Sink) Enabled() bool { return s.url != "" }

// Notify schedules one delivery and returns immediately. Events arriving
// after Close are dropped.
func (s *Sink) Notify(event notify.Event) {
	if !s.Enabled() || s.ctx.Err() != nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(event)
	}()
}

func (s *Sink) deliver(event notify.Event) {
	body, err := notify.BuildPayload(event)
	if err != nil {
		s.observe(event.Kind, "failed")
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("encode notification")
		return
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		s.observe(event.Kind, "failed")
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("build notification request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.observe(event.Kind, "failed")
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("notification delivery failed")
		return
	}
	resp.Body.Close()

	// Discord answers 204 on success.
	if resp.StatusCode >= 300 {
		s.observe(event.Kind, "failed")
		s.logger.Warn().
			Int("status", resp.StatusCode).
			Str("event_id", event.ID).
			Msg("webhook rejected notification")
		return
	}
	s.observe(event.Kind, "delivered")
	s.logger.Debug().Str("event_id", event.ID).Str("kind", string(event.Kind)).Msg("notification delivered")
}

func (s *Sink) observe(kind notify.Kind, outcome string) {
	s.metrics.Notifications.WithLabelValues(string(kind), outcome).Inc()
}

// Close cancels pending deliveries and waits for in-flight goroutines.
// The wait is bounded by the per-delivery client timeout, so shutdown
// cannot hang on a stuck webhook.
func (s *Sink) Close() {
	s.cancel()
	s.wg.Wait()
}

var _ ports.Notifier = (*Sink)(nil)

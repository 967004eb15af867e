// Package youtube implements the video provider gateway against the
// YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/domain/provider"
	"github.com/topiclens/topiclens/domain/video"
	"github.com/topiclens/topiclens/ports"
)

// Defaults match the original deployment.
const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"
	DefaultTimeout = 60 * time.Second

	// MaxBatch is the hard cap on one search request's batch size.
	MaxBatch = 60

	// maxQueries bounds the derived search queries per topic.
	maxQueries = 8

	// apiPageLimit is the YouTube API's own per-request maximum.
	apiPageLimit = 50
)

// Config configures the gateway.
type Config struct {
	BaseURL string // tests point this at a fake
	Timeout time.Duration
}

// Client is the video gateway. Like the AI gateway it never fails the
// request path: everything except a quota refusal is downgraded to demo.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	ledger  ports.QuotaLedger
	clock   ports.Clock
	logger  zerolog.Logger
}

// New creates the gateway with a tuned shared transport.
func New(cfg Config, ledger ports.QuotaLedger, clk ports.Clock, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client:  &http.Client{Transport: transport},
		ledger:  ledger,
		clock:   clk,
		logger:  logger.With().Str("gateway", provider.YouTube).Logger(),
	}
}

// Search finds, scores and aggregates videos for a topic. maxResults is
// clamped to [1, MaxBatch]. With no credential it returns a demo batch
// immediately: no network call, no quota consumption. For live calls the
// full batch size is reserved up front; unused units are released on
// completion so recorded usage equals the number of videos fetched.
func (c *Client) Search(ctx context.Context, topic, apiKey string, maxResults int) (provider.VideoResult, error) {
	if maxResults < 1 {
		maxResults = MaxBatch
	}
	if maxResults > MaxBatch {
		maxResults = MaxBatch
	}

	if apiKey == "" {
		return c.demo(topic, maxResults, provider.ReasonNone), nil
	}

	reserved := int64(maxResults)
	if !c.ledger.CheckAndReserve(provider.YouTube, reserved) {
		return provider.VideoResult{}, provider.ErrQuotaExceeded
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	queries := searchQueries(topic)
	videos, err := c.fetch(ctx, queries, apiKey, maxResults)
	if err != nil {
		c.ledger.Release(provider.YouTube, reserved)
		reason := provider.Classify(err)
		c.logger.Warn().
			Err(err).
			Str("reason", string(reason)).
			Str("topic", topic).
			Msg("video search downgraded to demo")
		return c.demo(topic, maxResults, reason), nil
	}

	// The reservation covered the worst case; keep only what the batch
	// actually consumed.
	c.ledger.Release(provider.YouTube, reserved-int64(len(videos)))

	analyzed := video.Analyze(videos, topic, c.clock.Now())
	return provider.VideoResult{
		Videos:      analyzed,
		Analytics:   video.Aggregate(analyzed),
		TotalFound:  len(analyzed),
		Topic:       topic,
		QueriesUsed: queries,
	}, nil
}

// fetch runs the search queries and the details lookup.
func (c *Client) fetch(ctx context.Context, queries []string, apiKey string, maxResults int) ([]video.Video, error) {
	perQuery := maxResults / len(queries)
	if perQuery < 1 {
		perQuery = 1
	}

	var ids []string
	seen := make(map[string]bool)
	for _, q := range queries {
		batch, err := c.searchIDs(ctx, q, apiKey, perQuery)
		if err != nil {
			return nil, err
		}
		for _, id := range batch {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		if len(ids) >= maxResults {
			break
		}
	}
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("search returned no videos")
	}

	var videos []video.Video
	for start := 0; start < len(ids); start += apiPageLimit {
		end := start + apiPageLimit
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := c.videoDetails(ctx, ids[start:end], apiKey)
		if err != nil {
			return nil, err
		}
		videos = append(videos, batch...)
	}
	return videos, nil
}

// searchQueries derives up to maxQueries search strings for a topic.
func searchQueries(topic string) []string {
	queries := []string{
		topic + " tutorial",
		topic + " guide",
		topic + " explained",
		topic + " course",
		topic + " fundamentals",
		topic + " advanced",
		topic + " project",
		topic + " best practices",
		"learn " + topic,
		topic + " step by step",
	}

	lower := strings.ToLower(topic)
	switch {
	case strings.Contains(lower, "programming") || strings.Contains(lower, "coding"):
		queries = append(queries,
			topic+" for beginners",
			topic+" examples",
			topic+" interview questions")
	case strings.Contains(lower, "data"):
		queries = append(queries,
			topic+" analysis",
			topic+" visualization",
			topic+" with python")
	}

	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

// Package gemini implements the AI provider gateway. It talks to the
// Gemini API through its OpenAI-compatible chat-completions surface, so
// the openai-go SDK carries the wire protocol.
package gemini

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/domain/provider"
	"github.com/topiclens/topiclens/ports"
)

// Defaults match the original deployment.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 60 * time.Second
)

// Generation parameters are fixed policy, not caller-configurable.
const (
	temperature     = 0.7
	topP            = 0.9
	maxOutputTokens = 2048
)

// Config configures the gateway.
type Config struct {
	BaseURL string        // OpenAI-compatible endpoint; tests point this at a fake
	Model   string
	Timeout time.Duration // per-call budget
}

// Client is the AI gateway. It never fails the request path: everything
// except a quota refusal is downgraded to a demo result.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration
	ledger  ports.QuotaLedger
	clock   ports.Clock
	logger  zerolog.Logger
}

// New creates the gateway.
func New(cfg Config, ledger ports.QuotaLedger, clk ports.Clock, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		ledger:  ledger,
		clock:   clk,
		logger:  logger.With().Str("gateway", provider.Gemini).Logger(),
	}
}

// Query sends the prompt to the model. With no credential it returns a
// demo result immediately: no network call, no quota consumption. One
// quota unit is reserved before a live call and released again if the
// call does not complete, so usage is recorded exactly for successful
// calls.
func (c *Client) Query(ctx context.Context, topic, promptText, apiKey string) (provider.AIResult, error) {
	if apiKey == "" {
		return c.demo(topic, provider.ReasonNone), nil
	}

	if !c.ledger.CheckAndReserve(provider.Gemini, 1) {
		return provider.AIResult{}, provider.ErrQuotaExceeded
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Retries stay disabled: failed calls downgrade to demo, they are
	// not retried.
	cli := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(c.baseURL),
		option.WithMaxRetries(0),
	)

	start := time.Now()
	completion, err := cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(promptText),
		},
		Model:       openai.ChatModel(c.model),
		Temperature: openai.Float(temperature),
		TopP:        openai.Float(topP),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		c.ledger.Release(provider.Gemini, 1)
		reason := provider.Classify(err)
		c.logger.Warn().
			Err(err).
			Str("reason", string(reason)).
			Dur("elapsed", time.Since(start)).
			Msg("ai call downgraded to demo")
		return c.demo(topic, reason), nil
	}

	if len(completion.Choices) == 0 {
		c.ledger.Release(provider.Gemini, 1)
		c.logger.Warn().Msg("ai response had no choices")
		return c.demo(topic, provider.ReasonParse), nil
	}

	return provider.AIResult{
		Content:     completion.Choices[0].Message.Content,
		Model:       c.model,
		TokensUsed:  completion.Usage.TotalTokens,
		GeneratedAt: c.clock.Now(),
	}, nil
}

func (c *Client) demo(topic string, reason provider.Reason) provider.AIResult {
	return provider.AIResult{
		Content:     demoContent(topic),
		Model:       c.model,
		IsDemo:      true,
		Error:       reason,
		GeneratedAt: c.clock.Now(),
	}
}

// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/topiclens/topiclens/domain/notify"
	"github.com/topiclens/topiclens/domain/provider"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Quota Ports
// -----------------------------------------------------------------------------

// QuotaState is the current counter state for one provider's daily window.
type QuotaState struct {
	Provider    string    `json:"provider"`
	DailyLimit  int64     `json:"daily_limit"`
	Used        int64     `json:"used"`
	WindowStart time.Time `json:"window_start"`
}

// QuotaLedger tracks per-provider consumption against daily limits.
// All mutation is atomic: concurrent callers never observe lost updates.
// Counters reset when the calendar day of the window start changes, and
// hold no state across process restarts.
type QuotaLedger interface {
	// CheckAndReserve reserves amount units if they fit in the current
	// window. It fails closed: false means the caller must not spend.
	CheckAndReserve(provider string, amount int64) bool

	// Release returns previously reserved units (e.g. after a failed call
	// or a smaller-than-reserved batch). Never drops below zero.
	Release(provider string, amount int64)

	// RecordUsage adds amount to the counter, saturating at the daily
	// limit so the recorded figure never overshoots.
	RecordUsage(provider string, amount int64)

	// Snapshot returns a consistent view of all provider windows.
	Snapshot() map[string]QuotaState
}

// -----------------------------------------------------------------------------
// Credential Ports
// -----------------------------------------------------------------------------

// CredentialStore holds the in-process provider credentials.
// Absence of a credential selects demo mode, never a failure.
type CredentialStore interface {
	GeminiKey() string
	YouTubeKey() string

	// Update replaces any non-empty keys and reports which were changed.
	Update(geminiKey, youtubeKey string) map[string]bool
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// AIProvider is the gateway to the AI text-generation service.
// It never fails the request path: provider errors are downgraded to a
// demo result. The only returned error is provider.ErrQuotaExceeded.
type AIProvider interface {
	Query(ctx context.Context, topic, promptText, apiKey string) (provider.AIResult, error)
}

// VideoProvider is the gateway to the video-search service.
// Same downgrade contract as AIProvider.
type VideoProvider interface {
	Search(ctx context.Context, topic, apiKey string, maxResults int) (provider.VideoResult, error)
}

// -----------------------------------------------------------------------------
// Notification Ports
// -----------------------------------------------------------------------------

// Notifier dispatches events to an external messaging webhook.
// Notify must return immediately; delivery happens on its own timeout and
// its outcome never reaches the caller.
type Notifier interface {
	Notify(event notify.Event)
	Enabled() bool
}

// Package memory provides in-memory implementations of the store ports.
// All state is process-local and resets at startup by contract.
package memory

import (
	"sync"

	"github.com/topiclens/topiclens/domain/quota"
	"github.com/topiclens/topiclens/ports"
)

// Ledger is an in-memory implementation of ports.QuotaLedger.
// A single mutex guards every read-modify-write so concurrent requests
// never produce lost updates; with only a handful of providers there is
// nothing to gain from sharding.
type Ledger struct {
	mu    sync.Mutex
	clock ports.Clock
	state map[string]ports.QuotaState
}

// NewLedger creates a ledger with the given per-provider daily limits.
// Counters start at zero; there is no persistence across restarts.
func NewLedger(limits map[string]int64, clk ports.Clock) *Ledger {
	l := &Ledger{
		clock: clk,
		state: make(map[string]ports.QuotaState, len(limits)),
	}
	now := clk.Now()
	for provider, limit := range limits {
		l.state[provider] = ports.QuotaState{
			Provider:    provider,
			DailyLimit:  limit,
			WindowStart: quota.WindowStart(now),
		}
	}
	return l
}

// CheckAndReserve reserves amount units if they fit in the current daily
// window. The rollover, check and increment happen as one atomic unit.
// Unknown providers are refused.
func (l *Ledger) CheckAndReserve(provider string, amount int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.state[provider]
	if !ok {
		return false
	}

	s = quota.Rollover(s, l.clock.Now())
	result := quota.Check(s, amount)
	if result.Allowed {
		s.Used += amount
	}
	l.state[provider] = s
	return result.Allowed
}

// Release returns previously reserved units, never dropping below zero.
func (l *Ledger) Release(provider string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.state[provider]
	if !ok {
		return
	}
	l.state[provider] = quota.Release(quota.Rollover(s, l.clock.Now()), amount)
}

// RecordUsage adds amount to the counter, saturating at the daily limit.
func (l *Ledger) RecordUsage(provider string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.state[provider]
	if !ok {
		return
	}
	l.state[provider] = quota.Record(quota.Rollover(s, l.clock.Now()), amount)
}

// Snapshot returns a consistent copy of every provider window, with
// rollover applied so stale windows never leak out.
func (l *Ledger) Snapshot() map[string]ports.QuotaState {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	out := make(map[string]ports.QuotaState, len(l.state))
	for provider, s := range l.state {
		s = quota.Rollover(s, now)
		l.state[provider] = s
		out[provider] = s
	}
	return out
}

// Clear resets all counters (for testing).
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	for provider, s := range l.state {
		s.Used = 0
		s.WindowStart = quota.WindowStart(now)
		l.state[provider] = s
	}
}

// Ensure interface compliance.
var _ ports.QuotaLedger = (*Ledger)(nil)

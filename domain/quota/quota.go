// Package quota provides pure functions for daily provider-quota
// enforcement. All functions are deterministic with no side effects; the
// mutex-guarded ledger in adapters/memory applies them atomically.
package quota

import (
	"time"

	"github.com/topiclens/topiclens/ports"
)

// WarningLevel indicates how close to the daily limit a provider is.
type WarningLevel int

const (
	WarningNone        WarningLevel = iota // < 80%
	WarningApproaching                     // >= 80%
	WarningCritical                        // >= 95%
	WarningExceeded                        // at limit
)

// CheckResult is the outcome of a quota check (value type).
type CheckResult struct {
	Allowed      bool
	Used         int64
	Limit        int64
	Remaining    int64
	PercentUsed  float64
	WarningLevel WarningLevel
	Reason       string
}

// SameDay reports whether two instants fall on the same calendar day,
// compared in the window start's location.
func SameDay(windowStart, now time.Time) bool {
	now = now.In(windowStart.Location())
	y1, m1, d1 := windowStart.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// WindowStart returns the beginning of the day containing t.
func WindowStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Rollover resets the counter when now has crossed into a new day
// relative to the state's window start.
func Rollover(s ports.QuotaState, now time.Time) ports.QuotaState {
	if s.WindowStart.IsZero() || !SameDay(s.WindowStart, now) {
		s.Used = 0
		s.WindowStart = WindowStart(now)
	}
	return s
}

// Check performs a quota check against current state. It fails closed:
// a reservation that would push used past the limit is not allowed.
func Check(s ports.QuotaState, amount int64) CheckResult {
	result := CheckResult{
		Used:      s.Used,
		Limit:     s.DailyLimit,
		Remaining: max64(0, s.DailyLimit-s.Used),
	}
	if s.DailyLimit > 0 {
		result.PercentUsed = float64(s.Used) / float64(s.DailyLimit) * 100
	}

	switch {
	case s.Used >= s.DailyLimit:
		result.WarningLevel = WarningExceeded
	case result.PercentUsed >= 95:
		result.WarningLevel = WarningCritical
	case result.PercentUsed >= 80:
		result.WarningLevel = WarningApproaching
	}

	result.Allowed = amount >= 0 && s.Used+amount <= s.DailyLimit
	if !result.Allowed {
		result.Reason = "quota_exceeded"
	}
	return result
}

// Record adds amount to the counter, saturating at the daily limit so
// the recorded figure never overshoots.
func Record(s ports.QuotaState, amount int64) ports.QuotaState {
	s.Used += amount
	if s.Used > s.DailyLimit {
		s.Used = s.DailyLimit
	}
	if s.Used < 0 {
		s.Used = 0
	}
	return s
}

// Release returns previously reserved units, never dropping below zero.
func Release(s ports.QuotaState, amount int64) ports.QuotaState {
	s.Used -= amount
	if s.Used < 0 {
		s.Used = 0
	}
	return s
}

// String returns the warning level label.
func (w WarningLevel) String() string {
	switch w {
	case WarningNone:
		return "none"
	case WarningApproaching:
		return "approaching"
	case WarningCritical:
		return "critical"
	case WarningExceeded:
		return "exceeded"
	default:
		return "unknown"
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Package provider defines the normalized result shapes returned by the
// external provider gateways, and the failure classification applied when
// a live call is downgraded to demo mode.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/topiclens/topiclens/domain/video"
)

// ErrQuotaExceeded is the only error a gateway surfaces to its caller.
// Everything else is downgraded into a demo result.
var ErrQuotaExceeded = errors.New("provider daily quota exceeded")

// Provider names used as quota ledger keys.
const (
	Gemini  = "gemini"
	YouTube = "youtube"
)

// Reason classifies why a live call was downgraded.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonTimeout  Reason = "timeout"
	ReasonUpstream Reason = "upstream_error"
	ReasonParse    Reason = "parse_error"
)

// Classify maps a transport or decode error to a downgrade reason.
func Classify(err error) Reason {
	if err == nil {
		return ReasonNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ReasonParse
	}
	return ReasonUpstream
}

// AIResult is the normalized outcome of an AI gateway call.
type AIResult struct {
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	TokensUsed  int64     `json:"tokens_used"`
	IsDemo      bool      `json:"is_demo"`
	Error       Reason    `json:"error,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// VideoResult is the normalized outcome of a video gateway call.
type VideoResult struct {
	Videos      []video.Video   `json:"videos"`
	Analytics   video.Analytics `json:"analytics"`
	TotalFound  int             `json:"total_found"`
	Topic       string          `json:"topic"`
	QueriesUsed []string        `json:"search_queries_used,omitempty"`
	IsDemo      bool            `json:"is_demo"`
	Error       Reason          `json:"error,omitempty"`
}

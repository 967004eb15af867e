// Package notify provides value types and pure functions for webhook
// notification events. All types are immutable values; all functions are
// pure. Delivery lives in adapters/discord.
package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind is the notification event kind.
type Kind string

const (
	KindVisitor Kind = "visitor" // a human visitor arrived
	KindRequest Kind = "request" // an API request completed
	KindError   Kind = "error"   // request handling failed unexpectedly
)

// Event carries the minimal identifying context for one notification.
// It never includes request or response bodies.
type Event struct {
	ID        string
	Kind      Kind
	Method    string
	Path      string
	Status    int
	ClientIP  string
	UserAgent string
	Referer   string
	Duration  time.Duration
	Detail    string // short error description for KindError
	At        time.Time
}

// Embed colors.
const (
	colorGreen  = 0x00ff00
	colorOrange = 0xffa500
	colorRed    = 0xff0000
	colorBlue   = 0x3498db
)

type payload struct {
	Username string  `json:"username"`
	Embeds   []embed `json:"embeds"`
}

type embed struct {
	Title     string  `json:"title"`
	Color     int     `json:"color"`
	Timestamp string  `json:"timestamp"`
	Fields    []field `json:"fields"`
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// BuildPayload renders the webhook JSON body for an event.
func BuildPayload(e Event) ([]byte, error) {
	em := embed{
		Title:     title(e),
		Color:     color(e),
		Timestamp: e.At.UTC().Format(time.RFC3339),
	}

	switch e.Kind {
	case KindVisitor:
		em.Fields = []field{
			{Name: "IP Address", Value: code(e.ClientIP), Inline: true},
			{Name: "User Agent", Value: code(truncate(e.UserAgent, 150)), Inline: false},
		}
		if e.Referer != "" {
			em.Fields = append(em.Fields, field{Name: "Referer", Value: code(truncate(e.Referer, 100)), Inline: false})
		}
	case KindError:
		em.Fields = []field{
			{Name: "Endpoint", Value: code(e.Method + " " + e.Path), Inline: true},
			{Name: "Client IP", Value: code(e.ClientIP), Inline: true},
			{Name: "Error", Value: code(truncate(e.Detail, 500)), Inline: false},
		}
	default:
		em.Fields = []field{
			{Name: "Endpoint", Value: code(e.Method + " " + e.Path), Inline: true},
			{Name: "Status Code", Value: code(fmt.Sprintf("%d", e.Status)), Inline: true},
			{Name: "Processing Time", Value: code(fmt.Sprintf("%.3fs", e.Duration.Seconds())), Inline: true},
			{Name: "Client IP", Value: code(e.ClientIP), Inline: true},
			{Name: "User Agent", Value: code(truncate(e.UserAgent, 100)), Inline: false},
		}
	}

	return json.Marshal(payload{Username: "TopicLens API Bot", Embeds: []embed{em}})
}

func title(e Event) string {
	switch e.Kind {
	case KindVisitor:
		return "New Visitor"
	case KindError:
		return "Error - " + e.Method + " " + e.Path
	default:
		return "API Request - " + e.Method + " " + e.Path
	}
}

func color(e Event) int {
	switch {
	case e.Kind == KindVisitor:
		return colorGreen
	case e.Kind == KindError || e.Status >= 500:
		return colorRed
	case e.Status >= 400:
		return colorOrange
	case e.Status >= 300:
		return colorBlue
	default:
		return colorGreen
	}
}

// automatedIndicators mark clients that should never trigger
// notifications (monitors, crawlers, CLI tools).
var automatedIndicators = []string{
	"bot", "crawler", "spider", "monitor", "health", "uptime",
	"pingdom", "newrelic", "datadog", "nagios", "zabbix",
	"curl", "wget", "python-requests", "go-http-client",
	"postman", "insomnia", "httpie",
}

// IsAutomated reports whether a user agent looks like an automated tool
// rather than a person.
func IsAutomated(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return true
	}
	ua := strings.ToLower(userAgent)
	for _, indicator := range automatedIndicators {
		if strings.Contains(ua, indicator) {
			return true
		}
	}
	return false
}

func code(s string) string {
	if s == "" {
		s = "unknown"
	}
	return "`" + s + "`"
}

// truncate shortens s to at most maxLen runes, never splitting a
// multi-byte sequence.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

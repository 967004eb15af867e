// Package http exposes the JSON API. Handlers decode and validate,
// delegate to the app service, and encode the uniform envelope; they
// hold no business logic.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/app"
	"github.com/topiclens/topiclens/domain/prompt"
	"github.com/topiclens/topiclens/domain/provider"
	"github.com/topiclens/topiclens/ports"
)

// Error codes of the public API.
const (
	codeInvalidTopic   = "invalid_topic"
	codeInvalidRequest = "invalid_request"
	codeQuotaExceeded  = "quota_exceeded"
	codeInternal       = "internal_error"
)

// Handler serves the /api surface.
type Handler struct {
	service  *app.Service
	notifier ports.Notifier
	clock    ports.Clock
	logger   zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(service *app.Service, notifier ports.Notifier, clk ports.Clock, logger zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		notifier: notifier,
		clock:    clk,
		logger:   logger.With().Str("component", "http").Logger(),
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	Timestamp string    `json:"timestamp"`
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Success:   true,
		Data:      data,
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Success:   false,
		Error:     &apiError{Code: code, Message: message},
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	})
}

// decode reads a JSON body into dst, rejecting unparseable input.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, codeInvalidRequest, "request body must be valid JSON")
		return false
	}
	return true
}

// writeServiceError maps service errors onto the public taxonomy.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, prompt.ErrEmptyTopic):
		h.writeError(w, http.StatusBadRequest, codeInvalidTopic, "topic must not be empty")
	case errors.Is(err, provider.ErrQuotaExceeded):
		h.writeError(w, http.StatusTooManyRequests, codeQuotaExceeded, "daily quota for this provider is exhausted")
	default:
		h.logger.Error().Err(err).Msg("request failed")
		h.writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// Health reports service status and which providers are configured.
// Unlike the API operations it is not wrapped in the envelope; monitors
// read the status field at the top level.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	gemini, youtube := h.service.KeysConfigured()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"version":   Version,
		"timestamp": h.clock.Now().UTC().Format(time.RFC3339),
		"services": map[string]bool{
			"gemini":  gemini,
			"youtube": youtube,
			"discord": h.notifier.Enabled(),
		},
	})
}

// GeneratePrompt renders the research prompt for a topic.
func (h *Handler) GeneratePrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	art, err := h.service.GeneratePrompt(r.Context(), req.Topic)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, art)
}

// GeminiQuery sends a topic's prompt to the AI provider.
func (h *Handler) GeminiQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic  string `json:"topic"`
		Prompt string `json:"prompt"`
		APIKey string `json:"api_key"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.QueryAI(r.Context(), req.Topic, req.Prompt, req.APIKey)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, res)
}

// YouTubeSearch runs a scored video search for a topic.
func (h *Handler) YouTubeSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic      string `json:"topic"`
		APIKey     string `json:"api_key"`
		MaxResults int    `json:"max_results"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.service.SearchVideos(r.Context(), req.Topic, req.APIKey, req.MaxResults)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, res)
}

// Quotas reports every provider's daily window.
func (h *Handler) Quotas(w http.ResponseWriter, r *http.Request) {
	views := h.service.Quotas()
	byProvider := make(map[string]app.QuotaView, len(views))
	for _, v := range views {
		byProvider[v.Provider] = v
	}
	h.writeData(w, http.StatusOK, byProvider)
}

// UpdateKeys replaces stored provider credentials.
func (h *Handler) UpdateKeys(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GeminiKey  string `json:"gemini_key"`
		YouTubeKey string `json:"youtube_key"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	updated := h.service.UpdateKeys(req.GeminiKey, req.YouTubeKey)
	h.writeData(w, http.StatusOK, map[string]any{"updated_keys": updated})
}

// ExampleTopics returns the static starter topic list as a bare array.
func (h *Handler) ExampleTopics(w http.ResponseWriter, r *http.Request) {
	h.writeData(w, http.StatusOK, h.service.ExampleTopics())
}

// Liveness is the bare liveness probe.
func Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Version is set at build time via -ldflags.
var Version = "dev"

// VersionHandler returns build information.
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "topiclens",
		"version": Version,
	})
}

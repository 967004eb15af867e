package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/metrics"
	"github.com/topiclens/topiclens/domain/notify"
	"github.com/topiclens/topiclens/ports"
)

// internalPath reports paths excluded from metrics, logging noise and
// notifications.
func internalPath(path string) bool {
	return strings.HasPrefix(path, "/health") || path == "/metrics" || path == "/version"
}

// NewLoggingMiddleware logs completed requests.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if internalPath(r.URL.Path) {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

// NewMetricsMiddleware records request metrics.
func NewMetricsMiddleware(m *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if internalPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := statusLabel(ww.Status())
			path := metrics.NormalizePath(r.URL.Path)

			m.RequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			m.RequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		})
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// maxTrackedVisitors bounds the first-visit set so a scan cannot grow
// it without limit.
const maxTrackedVisitors = 10000

// NewNotifyMiddleware dispatches a fire-and-forget event per completed
// API request, plus a one-time visitor event the first time a client
// address is seen. Automated clients (bots, monitors, probes) and
// internal endpoints never notify.
func NewNotifyMiddleware(notifier ports.Notifier, idGen ports.IDGenerator, clk ports.Clock) func(next http.Handler) http.Handler {
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
	)
	firstVisit := func(ip string) bool {
		mu.Lock()
		defer mu.Unlock()
		if _, ok := seen[ip]; ok {
			return false
		}
		if len(seen) >= maxTrackedVisitors {
			return false
		}
		seen[ip] = struct{}{}
		return true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			if !notifier.Enabled() || internalPath(r.URL.Path) {
				return
			}
			if notify.IsAutomated(r.UserAgent()) {
				return
			}

			ip := clientIP(r)
			if firstVisit(ip) {
				notifier.Notify(notify.Event{
					ID:        idGen.New(),
					Kind:      notify.KindVisitor,
					ClientIP:  ip,
					UserAgent: r.UserAgent(),
					Referer:   r.Referer(),
					At:        clk.Now(),
				})
			}

			notifier.Notify(notify.Event{
				ID:        idGen.New(),
				Kind:      notify.KindRequest,
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    ww.Status(),
				ClientIP:  ip,
				UserAgent: r.UserAgent(),
				Referer:   r.Referer(),
				Duration:  time.Since(start),
				At:        clk.Now(),
			})
		})
	}
}

// NewRecoverer converts panics into the JSON 500 envelope and fires a
// best-effort error notification before responding.
func NewRecoverer(notifier ports.Notifier, idGen ports.IDGenerator, clk ports.Clock, logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// net/http aborts the connection on this sentinel.
					panic(rec)
				}

				logger.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("request panicked")

				if notifier != nil && notifier.Enabled() {
					notifier.Notify(notify.Event{
						ID:       idGen.New(),
						Kind:     notify.KindError,
						Method:   r.Method,
						Path:     r.URL.Path,
						Status:   http.StatusInternalServerError,
						ClientIP: clientIP(r),
						Detail:   fmt.Sprint(rec),
						At:       clk.Now(),
					})
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(envelope{
					Success:   false,
					Error:     &apiError{Code: codeInternal, Message: "internal error"},
					Timestamp: clk.Now().UTC().Format(time.RFC3339),
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

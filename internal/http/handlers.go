package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	applog "salesdash/internal/log"
	"salesdash/internal/repo"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady checks templates and runs a cheap count against the store.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.store == nil {
		checks["storage"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else if _, err := s.store.Count(ctx, repo.Filter{}); err != nil {
		checks["storage"] = "failed"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
		s.eventsFor(r).LogError(ctx, "Readiness check failed", err, applog.ErrorTypeDatabase, "readiness", nil)
	} else {
		checks["storage"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides request and security counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.traceMiddleware.GetMetrics()
	securityMetrics := s.detector.GetMetrics()
	rateLimitMetrics := s.seedLimiter.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "# HELP salesdash_requests_total Total HTTP requests\n")
	fmt.Fprintf(w, "salesdash_requests_total %d\n", traceMetrics.TotalRequests)
	fmt.Fprintf(w, "# HELP salesdash_server_errors_total HTTP responses with status >= 500\n")
	fmt.Fprintf(w, "salesdash_server_errors_total %d\n", traceMetrics.ServerErrors)
	fmt.Fprintf(w, "salesdash_last_request_duration_us %d\n", traceMetrics.LastDurationUs)
	fmt.Fprintf(w, "salesdash_suspicious_requests_total %d\n", securityMetrics.SuspiciousRequests)
	fmt.Fprintf(w, "salesdash_seed_rate_limited_total %d\n", rateLimitMetrics.Rejected)
	fmt.Fprintf(w, "salesdash_seed_rate_limit_clients %d\n", rateLimitMetrics.ClientCount)
	fmt.Fprintf(w, "salesdash_uptime_seconds %d\n", int64(time.Since(s.startedAt).Seconds()))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, codeNotFound, "No route for "+r.URL.Path)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
}

package http

import (
	"context"
	"net/http"

	applog "salesdash/internal/log"
)

// seedSource tags seed requests queued from the HTTP API.
const seedSource = "http"

// InitializeResponse is returned by an inline /initialize.
type InitializeResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedQueuedResponse is returned when /initialize hands the seed to a worker.
type SeedQueuedResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// handleInitialize handles GET|POST /initialize. With a queue configured the
// seed is handed to a worker and 202 is returned; otherwise it runs inline.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	if s.seeder == nil {
		writeJSONError(w, http.StatusServiceUnavailable, codeUnavailable, "Seeding is not configured")
		return
	}
	fields := applog.NewFields()

	if s.seeder.Async() {
		id, err := s.seeder.RequestSeed(r.Context(), seedSource)
		if err != nil {
			s.writeServiceError(w, r, applog.OpSeed, fields, err)
			return
		}
		applog.FromContext(r.Context()).InfoContext(r.Context(), "Seed queued", applog.FieldOperation, applog.OpSeed, "seed_request_id", id)
		writeJSON(w, http.StatusAccepted, SeedQueuedResponse{Message: "seed queued", RequestID: id})
		return
	}

	// The seed outlives a dropped client connection.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.opts.SeedTimeout)
	defer cancel()

	n, err := s.seeder.Seed(ctx)
	if err != nil {
		s.writeServiceError(w, r, applog.OpSeed, fields, err)
		return
	}
	s.eventsFor(r).LogReport(r.Context(), applog.OpSeed, fields, n)
	writeJSON(w, http.StatusOK, InitializeResponse{Message: "Database initialized with seed data", Count: n})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldComponent, applog.ComponentRateLimit,
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeJSONError(w, http.StatusTooManyRequests, codeRateLimited, "Rate limit exceeded. Please try again later.")
}

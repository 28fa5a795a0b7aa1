package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"salesdash/internal/core"
	applog "salesdash/internal/log"
	"salesdash/internal/services"
)

// Error codes used in the JSON error envelope.
const (
	codeInvalidParameter = "invalid_parameter"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeRateLimited      = "rate_limited"
	codeServerError      = "server_error"
	codeFeedUnavailable  = "feed_unavailable"
	codeUnavailable      = "unavailable"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// writeJSON writes v with the given status. Encoding happens before the
// header is written so a failed encode still yields a clean 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, codeServerError, "Failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}

// writeServiceError maps a reporting or seeding failure to a status code and
// logs it. Storage details stay in the log.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, op string, fields applog.LogFields, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
		return
	case errors.Is(err, services.ErrFeedUnavailable):
		s.eventsFor(r).LogError(r.Context(), "Seed feed unavailable", err, applog.ErrorTypeNetwork, op, fields)
		writeJSONError(w, http.StatusBadGateway, codeFeedUnavailable, "Seed feed could not be fetched")
		return
	case errors.Is(err, services.ErrStorageUnavailable):
		s.eventsFor(r).LogError(r.Context(), "Report query failed", err, applog.ErrorTypeDatabase, op, fields)
	default:
		s.eventsFor(r).LogError(r.Context(), "Request failed", err, applog.ErrorTypeInternal, op, fields)
	}
	writeJSONError(w, http.StatusInternalServerError, codeServerError, "Internal server error")
}

// eventsFor returns a structured logger carrying the request's logger context.
func (s *Server) eventsFor(r *http.Request) *applog.StructuredLogger {
	return applog.NewStructuredLogger(applog.FromContext(r.Context()))
}

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newJSONLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{Level: slog.LevelDebug, Component: component, Format: "json", Output: buf})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, ComponentReport).WithMonth("06")
	logger.Info("Report served")

	line := decodeLine(t, &buf)
	if line[FieldComponent] != ComponentReport {
		t.Errorf("component = %v", line[FieldComponent])
	}
	if line[FieldMonth] != "06" {
		t.Errorf("month = %v", line[FieldMonth])
	}
	if logger.Component() != ComponentReport {
		t.Errorf("Component() = %q", logger.Component())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := newJSONLogger(&buf, ComponentHTTP)

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req_42" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/statistics", nil))

	if line := decodeLine(t, &buf); line[FieldRequestID] != "req_42" {
		t.Fatalf("request_id = %v", line[FieldRequestID])
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Logger == nil {
		t.Fatalf("expected fallback logger")
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "INFO"},
		{400, "WARN"},
		{500, "ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		sl := NewStructuredLogger(newJSONLogger(&buf, ComponentHTTP))
		r := httptest.NewRequest(http.MethodGet, "/bar-chart?month=06", nil)
		sl.LogHTTPEnd(context.Background(), r, tt.status, 15*time.Millisecond, "10.0.0.1")

		line := decodeLine(t, &buf)
		if line["level"] != tt.level {
			t.Errorf("status %d logged at %v, want %s", tt.status, line["level"], tt.level)
		}
		if line[FieldQuery] != "month=06" || line[FieldDuration] != float64(15) {
			t.Errorf("unexpected fields: %v", line)
		}
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newJSONLogger(&buf, ComponentReport))
	sl.LogError(context.Background(), "Query failed", errors.New("disk full"), ErrorTypeDatabase, OpStatistics,
		NewFields().WithQuery("06", "", 0, 0))

	line := decodeLine(t, &buf)
	if line[FieldError] != "disk full" || line[FieldErrorType] != ErrorTypeDatabase || line[FieldOperation] != OpStatistics {
		t.Fatalf("unexpected fields: %v", line)
	}
	if _, ok := line[FieldSearch]; ok {
		t.Fatalf("empty search must be omitted")
	}
}

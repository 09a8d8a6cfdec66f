package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger tests that requests are logged with method, path, and
// status.
func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("POST", "/v1/normalize", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", w.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["method"] != "POST" {
		t.Errorf("expected method=POST, got %v", entry["method"])
	}
	if entry["path"] != "/v1/normalize" {
		t.Errorf("expected path=/v1/normalize, got %v", entry["path"])
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("expected status=418, got %v", entry["status"])
	}
}

// TestLogger_ContextLogger tests that handlers see a request-tagged
// logger in the context.
func TestLogger_ContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("from handler")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "from handler") {
		t.Error("handler log line missing")
	}
	if !strings.Contains(buf.String(), `"path":"/healthz"`) {
		t.Error("handler log line not tagged with request path")
	}
}

// TestRecovery tests that a panicking handler yields a 500 JSON error.
func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	handler := Recovery(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("expected INTERNAL_ERROR envelope, got %s", w.Body.String())
	}
}

// TestRecovery_PassThrough tests that healthy handlers are untouched.
func TestRecovery_PassThrough(t *testing.T) {
	logger := zerolog.Nop()

	handler := Recovery(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
}

// TestResponseWriter tests status capture, including the implicit 200.
func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name   string
		handle func(w http.ResponseWriter)
		want   int
	}{
		{"explicit status", func(w http.ResponseWriter) { w.WriteHeader(http.StatusAccepted) }, http.StatusAccepted},
		{"implicit 200", func(w http.ResponseWriter) { _, _ = w.Write([]byte("ok")) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
			tt.handle(wrapped)

			if wrapped.statusCode != tt.want {
				t.Errorf("expected captured status %d, got %d", tt.want, wrapped.statusCode)
			}
		})
	}
}

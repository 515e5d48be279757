package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"pdfqa/internal/ai"
	"pdfqa/internal/bootstrap"
	"pdfqa/internal/config"
)

// newTestRouter builds the full router without live backends; only routes
// that never touch them are exercised.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.App.GinMode = "test"
	cfg.RateLimit.Enabled = false

	return NewRouter(&bootstrap.App{
		Config: cfg,
		Logger: zap.NewNop(),
		LLM:    ai.NewClient(ai.Config{}, zap.NewNop()),
	})
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q is not the JSON error shape: %v", w.Body.String(), err)
	}
	return body
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("content-type = %q", w.Header().Get("Content-Type"))
	}
	if body := errorBody(t, w); body["error"] != "not found" {
		t.Fatalf("body = %v", body)
	}
}

func TestWrongMethodReturnsJSONError(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/health", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	if body := errorBody(t, w); body["error"] != "method not allowed" {
		t.Fatalf("body = %v", body)
	}
}

func TestPanicReturnsJSONError(t *testing.T) {
	// The nil database makes the document listing panic; the recovery
	// middleware must still answer with the uniform error body.
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := errorBody(t, w); body["error"] != "internal server error" {
		t.Fatalf("body = %v", body)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pdfqa/internal/pkg/ratelimit"
)

func newSecuredRouter(maxBody int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewSecurityMiddleware(maxBody, nil, zap.NewNop()).Handler())
	r.GET("/api/documents", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/upload", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	r := newSecuredRouter(0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := w.Header().Get(header); got != want {
			t.Fatalf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestSuspiciousRequestsBlocked(t *testing.T) {
	r := newSecuredRouter(0)

	targets := []string{
		"/api/documents?q=..%2F..%2Fetc%2Fpasswd",
		"/api/documents?q=%3Cscript%3Ealert(1)%3C/script%3E",
		"/api/documents?q=1%20union%20select%20*",
	}
	for _, target := range targets {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusForbidden {
			t.Fatalf("GET %s: status = %d, want 403", target, w.Code)
		}
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	r := newSecuredRouter(10)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	req.ContentLength = 11

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(ratelimit.New(2, time.Minute), zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After = %q, want 60", got)
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protected(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":    c.MustGet(ContextUserID).(uint),
			"company": c.MustGet(ContextCompanyID).(uint),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "segredo"}
	now := time.Now()

	valid, err := IssueToken(cfg, 3, 9, "owner", now)
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := IssueToken(cfg, 3, 9, "owner", now.Add(-48*time.Hour))
	noTenant, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 3, "exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	otherKey, _ := IssueToken(&config.Config{JWTSecret: "outro"}, 3, 9, "owner", now)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + otherKey, http.StatusUnauthorized},
		{"no tenant", "Bearer " + noTenant, http.StatusUnauthorized},
	}

	r := protected(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter Limiter
		status  int
	}{
		{"disabled", nil, http.StatusOK},
		{"allowed", &stubLimiter{allow: true}, http.StatusOK},
		{"exceeded", &stubLimiter{allow: false}, http.StatusTooManyRequests},
		{"redis down fails open", &stubLimiter{err: errors.New("dial tcp")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/public/:slug/services", RateLimit(tt.limiter, logging.Discard()), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/public/central/services", nil))
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestCronToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		status     int
	}{
		{"match", "abc", "abc", http.StatusOK},
		{"mismatch", "abc", "abd", http.StatusUnauthorized},
		{"not configured", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/run", CronToken(tt.configured), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/run", nil)
			req.Header.Set(HeaderCronToken, tt.sent)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestRequestIDAndPreflight(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), CORSMiddleware(nil), AccessLog(logging.Discard()))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected propagated id, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://agenda.exemplo.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("unexpected preflight response: %d", w.Code)
	}
}

func TestCORSAllowList(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://agenda.exemplo.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin string
		want   string
	}{
		{"https://agenda.exemplo.com", "https://agenda.exemplo.com"},
		{"https://outro.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Fatalf("origin %q: expected %q, got %q", tt.origin, tt.want, got)
		}
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func whoami(c *gin.Context) {
	body := gin.H{
		"actor":    c.MustGet(ContextActorID),
		"business": c.MustGet(ContextBusinessID),
		"role":     c.GetString(ContextUserRole),
	}
	if sid := SpecialistID(c); sid != nil {
		body["specialist"] = *sid
	}
	c.JSON(http.StatusOK, body)
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), whoami)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"no business", "Bearer " + sign(t, jwt.MapClaims{"sub": 1}), http.StatusUnauthorized},
		{"ok", "Bearer " + sign(t, jwt.MapClaims{"sub": 7, "businessId": 3, "specialistId": 5, "role": "owner"}), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("status %d, want %d: %s", w.Code, tc.status, w.Body.String())
			}
			if tc.status != http.StatusOK {
				return
			}

			var body map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body["actor"] != float64(7) || body["business"] != float64(3) || body["specialist"] != float64(5) || body["role"] != "owner" {
				t.Fatalf("unexpected identity %v", body)
			}
		})
	}
}

func TestAuthRejectsOtherSigningMethod(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(secret), whoami)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 1, "businessId": 1}).SignedString([]byte("other"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong key, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("preflight: %d %v", w.Code, w.Header())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unknown origin must not be echoed")
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := w.Header().Get(HeaderRequestID)
	if len(id) != 36 || w.Body.String() != id {
		t.Fatalf("expected generated uuid, got %q / %q", id, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("caller id not kept")
	}
}

func TestLocalLimiterPerKey(t *testing.T) {
	l := NewLocalLimiter(2, time.Hour, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow(ctx, "a"); !ok {
			t.Fatalf("request %d should pass", i)
		}
	}
	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Fatalf("third request should be limited")
	}
	if ok, _ := l.Allow(ctx, "b"); !ok {
		t.Fatalf("other key has its own budget")
	}
}

func TestLocalLimiterDropsIdleKeys(t *testing.T) {
	l := NewLocalLimiter(2, time.Minute, 2)
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if ok, _ := l.Allow(ctx, key); !ok {
			t.Fatalf("key %s should pass", key)
		}
	}
	if l.Size() != 3 {
		t.Fatalf("expected 3 keys, got %d", l.Size())
	}

	now = now.Add(30 * time.Second)
	l.Allow(ctx, "a")
	l.Allow(ctx, "a")
	if ok, _ := l.Allow(ctx, "a"); ok {
		t.Fatalf("key a should still be limited inside its window")
	}

	now = now.Add(40 * time.Second)
	if ok, _ := l.Allow(ctx, "d"); !ok {
		t.Fatalf("key d should pass")
	}
	if l.Size() != 2 {
		t.Fatalf("idle keys should be dropped, got %d", l.Size())
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(NewLocalLimiter(1, time.Hour, 1), time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "60" {
		t.Fatalf("second request: %d %v", w.Code, w.Header())
	}
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := gin.New()
	r.GET("/x", RateLimit(NewRedisLimiter(client, 1, time.Minute), time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected pass-through, got %d", i, w.Code)
		}
	}
}

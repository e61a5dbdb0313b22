package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mestoapp/mesto/internal/http/middlewares"
)

func limitedRouter(rl *middlewares.RateLimiter, keyFn func(*gin.Context) string) *gin.Engine {
	r := gin.New()
	r.POST("/signin", rl.Middleware(keyFn), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := middlewares.NewRateLimiter(3, time.Minute)
	r := limitedRouter(rl, func(*gin.Context) string { return "fixed-key" })

	for i := 1; i <= 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("request over limit: got status %d, want 429", w.Code)
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatal("429 response is missing Retry-After")
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := middlewares.NewRateLimiter(1, time.Minute)

	key := "a"
	r := limitedRouter(rl, func(*gin.Context) string { return key })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("first request for key a: got status %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request for key a: got status %d, want 429", w.Code)
	}

	key = "b"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("first request for key b: got status %d, want 200", w.Code)
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := middlewares.NewRateLimiter(1, 20*time.Millisecond)
	r := limitedRouter(rl, func(*gin.Context) string { return "fixed-key" })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("first request: got status %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("within window: got status %d, want 429", w.Code)
	}

	time.Sleep(30 * time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("after window: got status %d, want 200", w.Code)
	}
}

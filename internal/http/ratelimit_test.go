package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func limitedRouter(limiter gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", limiter, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func TestRateLimiterDisabledWithoutRedis(t *testing.T) {
	router := limitedRouter(NewRateLimiter(nil, RateLimitConfig{Capacity: 1, RefillInterval: time.Minute}, quietLogger()))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected passthrough, got %d", i, rec.Code)
		}
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	router := limitedRouter(NewRateLimiter(rdb, RateLimitConfig{Capacity: 1, RefillInterval: time.Minute}, quietLogger()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected request through when redis is unreachable, got %d", rec.Code)
	}
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	if !ok || !allowed || remaining != 4 || retry != 0 {
		t.Fatalf("unexpected parse: allowed=%v remaining=%d retry=%d ok=%v", allowed, remaining, retry, ok)
	}

	allowed, _, retry, ok = parseBucketResult([]interface{}{int64(0), int64(0), int64(2500)})
	if !ok || allowed || retry != 2500 {
		t.Fatalf("expected blocked with retry 2500, got allowed=%v retry=%d", allowed, retry)
	}

	if _, _, _, ok := parseBucketResult("nope"); ok {
		t.Fatalf("expected malformed result to be rejected")
	}
}

func TestRateLimiterTokenBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(rdb, RateLimitConfig{
		Capacity:       2,
		RefillInterval: time.Minute,
		Now:            func() time.Time { return now },
	}, quietLogger())

	router := limitedRouter(limiter)
	router.POST("/submit-contact", limiter, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = ip + ":40000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	for i, remaining := range []string{"1", "0"} {
		rec := send("/login", "10.0.0.1")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, rec.Code)
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != remaining {
			t.Fatalf("request %d: expected remaining %s, got %q", i, remaining, got)
		}
	}

	rec := send("/login", "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once capacity is spent, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0, got %q", got)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("expected Retry-After 60, got %q", got)
	}
	if reason := decodeBody(t, rec)["reason"]; reason != "rate_limited" {
		t.Fatalf("unexpected reason %v", reason)
	}

	if rec := send("/login", "10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected another client to have its own bucket, got %d", rec.Code)
	}
	if rec := send("/submit-contact", "10.0.0.1"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected another route to have its own bucket, got %d", rec.Code)
	}

	now = now.Add(time.Minute)
	mr.FastForward(time.Minute)

	rec = send("/login", "10.0.0.1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected a refilled token, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected one token refilled and spent, got remaining %q", got)
	}
	if rec := send("/login", "10.0.0.1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after the refilled token is spent, got %d", rec.Code)
	}
}

package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limited(t *testing.T, max int, keyFunc func(*http.Request) string) http.Handler {
	t.Helper()
	return RateLimit(RateLimitConfig{Max: max, Window: time.Minute, KeyFunc: keyFunc})(okHandler())
}

func hit(handler http.Handler, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestTakeRefillsOverTime(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 2, Window: time.Minute})
	now := time.Now()

	_, _, ok := rl.take("k", now)
	require.True(t, ok)
	_, _, ok = rl.take("k", now)
	require.True(t, ok)

	remaining, retryAfter, ok := rl.take("k", now)
	require.False(t, ok)
	assert.Equal(t, 0, remaining)
	// Next token arrives at Max/Window rate: one per 30s here.
	assert.InDelta(t, 30*time.Second, retryAfter, float64(time.Second))

	// Half a window restores one token.
	_, _, ok = rl.take("k", now.Add(30*time.Second))
	assert.True(t, ok)
}

func TestTakeCapsAtMax(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 3, Window: time.Minute})
	now := time.Now()

	rl.take("k", now)

	// A long idle period must not bank more than Max tokens.
	later := now.Add(time.Hour)
	for i := 0; i < 3; i++ {
		_, _, ok := rl.take("k", later)
		require.True(t, ok, "request %d", i+1)
	}
	_, _, ok := rl.take("k", later)
	assert.False(t, ok)
}

func TestSweepDropsFullBuckets(t *testing.T) {
	rl := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})
	now := time.Now()

	rl.take("idle", now)
	rl.take("busy", now)
	rl.take("busy", now.Add(59*time.Second))

	rl.sweep(now.Add(time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.buckets, "idle")
	assert.Contains(t, rl.buckets, "busy")
}

func TestRateLimit_OverLimit(t *testing.T) {
	handler := limited(t, 2, nil)

	for i := 0; i < 2; i++ {
		w := hit(handler, "10.0.0.1:9999", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := hit(handler, "10.0.0.1:9999", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, float64(429), body["code"])
	assert.Equal(t, "rate limit exceeded", body["message"])
}

func TestRateLimit_Headers(t *testing.T) {
	handler := limited(t, 10, nil)

	w := hit(handler, "192.168.1.1:4444", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	handler := limited(t, 1, nil)

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:1234", nil).Code)
	// Same IP, different source port: still the same key.
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:5678", nil).Code)
}

func TestRateLimit_CustomKeyFunc(t *testing.T) {
	handler := limited(t, 1, func(r *http.Request) string {
		return r.Header.Get("X-API-Key")
	})

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1", map[string]string{"X-API-Key": "key-a"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.2:2", map[string]string{"X-API-Key": "key-a"}).Code)
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:3", map[string]string{"X-API-Key": "key-b"}).Code)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"socket peer", "192.168.1.1:4444", nil, "192.168.1.1"},
		{"x-forwarded-for single", "192.168.1.1:4444", map[string]string{"X-Forwarded-For": "203.0.113.50"}, "203.0.113.50"},
		{"x-forwarded-for list", "192.168.1.1:4444", map[string]string{"X-Forwarded-For": "203.0.113.50, 70.41.3.18"}, "203.0.113.50"},
		{"x-real-ip", "192.168.1.1:4444", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"no port", "192.168.1.1", nil, "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testRateLimiterConfig() *Config {
	return &Config{
		GlobalRPS:       100,
		ClientRPS:       2,
		CleanupInterval: time.Minute,
		IdleTimeout:     time.Hour,
		MaxClients:      100,
	}
}

func TestAllowExhaustsClientBurst(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := NewInMemoryRateLimiter(testRateLimiterConfig())
	defer func() {
		_ = rl.Close()
	}()

	// ClientRPS 2 with the default multiplier gives a burst of 4.
	for i := 0; i < 4; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d denied within burst capacity", i)
		}
	}

	if rl.Allow("10.0.0.1") {
		t.Error("request allowed after burst exhausted")
	}

	// A different client has its own bucket.
	if !rl.Allow("10.0.0.2") {
		t.Error("request from fresh client denied")
	}
}

func TestAllowSkipsClientTierForEmptyIP(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := NewInMemoryRateLimiter(testRateLimiterConfig())
	defer func() {
		_ = rl.Close()
	}()

	// Empty client IPs only consume the global bucket, so more than the
	// per-client burst must pass.
	for i := 0; i < 10; i++ {
		if !rl.Allow("") {
			t.Fatalf("request %d with empty IP denied", i)
		}
	}
}

func TestEvictIdleClients(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	cfg := testRateLimiterConfig()
	cfg.IdleTimeout = time.Nanosecond

	rl := NewInMemoryRateLimiter(cfg)
	defer func() {
		_ = rl.Close()
	}()

	rl.Allow("10.0.0.1")

	time.Sleep(time.Millisecond)
	rl.evictIdleClients()

	rl.mu.RLock()
	remaining := len(rl.perClient)
	rl.mu.RUnlock()

	if remaining != 0 {
		t.Errorf("perClient has %d entries after eviction, want 0", remaining)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	rl := NewInMemoryRateLimiter(testRateLimiterConfig())

	if err := rl.Close(); err != nil {
		t.Fatalf("first Close() = %v", err)
	}

	if err := rl.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
}

// denyAll is a RateLimiter stub that rejects every request.
type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := RateLimit(denyAll{}, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached despite rate limit")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}

	if body["error"] != "too many requests" {
		t.Errorf("error = %q, want %q", body["error"], "too many requests")
	}
}

func TestRemoteIP(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"host and port", "192.168.1.10:54321", "192.168.1.10"},
		{"ipv6 host and port", "[::1]:8080", "::1"},
		{"no port", "192.168.1.10", "192.168.1.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr

			if got := remoteIP(req); got != tt.want {
				t.Errorf("remoteIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

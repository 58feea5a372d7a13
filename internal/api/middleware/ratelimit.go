package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const burstCapacityMultiplier = 2

type (
	// RateLimiter provides rate limiting for incoming requests.
	//
	// The in-memory implementation suits single-node deployments; the
	// interface leaves room for a distributed backend without touching the
	// middleware.
	RateLimiter interface {
		// Allow checks if a request from the given client should be
		// allowed. Returns true if allowed, false if rate limited.
		Allow(clientIP string) bool
	}

	// InMemoryRateLimiter implements RateLimiter using golang.org/x/time/rate.
	//
	// Two-tier token buckets: a global limiter applied to every request and
	// a per-client-IP limiter. A background goroutine removes limiters for
	// clients idle longer than IdleTimeout to prevent unbounded growth.
	InMemoryRateLimiter struct {
		global        *rate.Limiter
		perClient     map[string]*clientLimiter
		mu            sync.RWMutex
		cleanupTicker *time.Ticker
		done          chan struct{}
		closeOnce     sync.Once

		clientRPS       int
		clientBurst     int
		cleanupInterval time.Duration
		idleTimeout     time.Duration
		maxClients      int
	}

	// clientLimiter tracks rate limit state for a single client IP.
	clientLimiter struct {
		limiter    *rate.Limiter
		lastAccess time.Time
		mu         sync.Mutex
	}
)

// NewInMemoryRateLimiter creates an in-memory rate limiter with global and
// per-client limits. Burst capacity defaults to 2 x rate unless overridden.
//
// Example:
//
//	rl := NewInMemoryRateLimiter(&Config{GlobalRPS: 100, ClientRPS: 10})
//	defer rl.Close()
func NewInMemoryRateLimiter(config *Config) *InMemoryRateLimiter {
	globalBurst := computeBurstCapacity(config.GlobalRPS, config.GlobalBurst)
	clientBurst := computeBurstCapacity(config.ClientRPS, config.ClientBurst)

	rl := &InMemoryRateLimiter{
		global:          rate.NewLimiter(rate.Limit(config.GlobalRPS), globalBurst),
		perClient:       make(map[string]*clientLimiter),
		done:            make(chan struct{}),
		clientRPS:       config.ClientRPS,
		clientBurst:     clientBurst,
		cleanupInterval: config.CleanupInterval,
		idleTimeout:     config.IdleTimeout,
		maxClients:      config.MaxClients,
	}

	rl.startCleanup()

	return rl
}

// computeBurstCapacity returns burstOverride when positive, otherwise 2 x rate.
func computeBurstCapacity(rps, burstOverride int) int {
	if burstOverride > 0 {
		return burstOverride
	}

	return rps * burstCapacityMultiplier
}

// Allow checks the global bucket first, then the client's bucket.
func (rl *InMemoryRateLimiter) Allow(clientIP string) bool {
	if !rl.global.Allow() {
		return false
	}

	if clientIP == "" {
		return true
	}

	cl := rl.limiterFor(clientIP)

	cl.mu.Lock()
	cl.lastAccess = time.Now()
	cl.mu.Unlock()

	return cl.limiter.Allow()
}

// limiterFor returns the limiter for a client, creating it on first sight.
// When the client map is full, unseen clients share the global bucket only.
func (rl *InMemoryRateLimiter) limiterFor(clientIP string) *clientLimiter {
	rl.mu.RLock()
	cl, ok := rl.perClient[clientIP]
	rl.mu.RUnlock()

	if ok {
		return cl
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Re-check after acquiring the write lock.
	if cl, ok := rl.perClient[clientIP]; ok {
		return cl
	}

	if len(rl.perClient) >= rl.maxClients {
		// Fall back to a throwaway limiter; not stored, so the map cannot
		// grow past maxClients.
		return &clientLimiter{
			limiter:    rate.NewLimiter(rate.Limit(rl.clientRPS), rl.clientBurst),
			lastAccess: time.Now(),
		}
	}

	cl = &clientLimiter{
		limiter:    rate.NewLimiter(rate.Limit(rl.clientRPS), rl.clientBurst),
		lastAccess: time.Now(),
	}
	rl.perClient[clientIP] = cl

	return cl
}

// startCleanup launches the background goroutine that evicts idle clients.
func (rl *InMemoryRateLimiter) startCleanup() {
	rl.cleanupTicker = time.NewTicker(rl.cleanupInterval)

	go func() {
		for {
			select {
			case <-rl.cleanupTicker.C:
				rl.evictIdleClients()
			case <-rl.done:
				return
			}
		}
	}()
}

// evictIdleClients removes limiters not used within idleTimeout.
func (rl *InMemoryRateLimiter) evictIdleClients() {
	cutoff := time.Now().Add(-rl.idleTimeout)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, cl := range rl.perClient {
		cl.mu.Lock()
		idle := cl.lastAccess.Before(cutoff)
		cl.mu.Unlock()

		if idle {
			delete(rl.perClient, ip)
		}
	}
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (rl *InMemoryRateLimiter) Close() error {
	rl.closeOnce.Do(func() {
		if rl.cleanupTicker != nil {
			rl.cleanupTicker.Stop()
		}

		close(rl.done)
	})

	return nil
}

// RateLimit creates a middleware that rejects rate-limited requests with 429.
func RateLimit(limiter RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := remoteIP(r)

			if !limiter.Allow(clientIP) {
				correlationID := GetCorrelationID(r.Context())

				logger.Warn("Request rate limited",
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("path", r.URL.Path),
					slog.String("correlation_id", correlationID),
				)

				body := struct {
					Error string `json:"error"`
				}{
					Error: "too many requests",
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)

				if err := json.NewEncoder(w).Encode(body); err != nil {
					logger.Error("Failed to encode rate limit response",
						slog.Any("error", err),
						slog.String("correlation_id", correlationID),
					)
				}

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// remoteIP extracts the client IP from RemoteAddr, dropping the port.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

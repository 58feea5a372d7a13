package middleware

import (
	"time"

	"github.com/terralog-io/terralog/internal/config"
)

const (
	defaultGlobalRPS           = 100
	defaultClientRPS           = 10
	maxClients                 = 10000
	rateLimiterCleanupInterval = 5 * time.Minute
	rateLimiterIdleTimeout     = 1 * time.Hour
)

// Config holds rate limiter configuration.
//
// Rate limits specify requests per second (RPS) for two tiers:
//   - Global: applied to all requests
//   - Per-client: applied per remote IP
//
// Burst capacity allows temporary bursts above the sustained rate.
// If burst fields are 0, they are computed automatically as 2 x rate.
type Config struct {
	GlobalRPS int // Default: 100
	ClientRPS int // Default: 10

	// Optional burst capacity overrides (0 = compute automatically as 2 x rate)
	GlobalBurst int
	ClientBurst int

	// Memory cleanup configuration
	CleanupInterval time.Duration // Default: 5 minutes
	IdleTimeout     time.Duration // Default: 1 hour
	MaxClients      int           // Default: 10,000
}

// LoadConfig loads middleware config from environment variables with fallback to defaults.
func LoadConfig() *Config {
	return &Config{
		GlobalRPS: config.GetEnvInt("TERRALOG_GLOBAL_RPS", defaultGlobalRPS),
		ClientRPS: config.GetEnvInt("TERRALOG_CLIENT_RPS", defaultClientRPS),

		GlobalBurst: config.GetEnvInt("TERRALOG_GLOBAL_BURST", 0),
		ClientBurst: config.GetEnvInt("TERRALOG_CLIENT_BURST", 0),

		CleanupInterval: config.GetEnvDuration(
			"TERRALOG_RATE_LIMIT_CLEANUP_INTERVAL", rateLimiterCleanupInterval,
		),
		IdleTimeout: config.GetEnvDuration("TERRALOG_RATE_LIMIT_IDLE_TIMEOUT", rateLimiterIdleTimeout),
		MaxClients:  config.GetEnvInt("TERRALOG_RATE_LIMIT_MAX_CLIENTS", maxClients),
	}
}

// Package events publishes ingestion notifications to Kafka for downstream
// consumers (dashboards, alerting). Publishing is optional and strictly
// post-commit: a publish failure never affects the stored batch.
package events

import (
	"time"

	"github.com/terralog-io/terralog/internal/config"
)

const (
	defaultTopic        = "terralog.readings"
	defaultWriteTimeout = 10 * time.Second
)

// Config holds Kafka publisher configuration.
// Pure configuration only - no runtime dependencies.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// LoadConfig loads Kafka configuration from environment variables.
// An empty TERRALOG_KAFKA_BROKERS disables publishing entirely.
func LoadConfig() *Config {
	return &Config{
		Brokers:      config.ParseCommaSeparatedList(config.GetEnvStr("TERRALOG_KAFKA_BROKERS", "")),
		Topic:        config.GetEnvStr("TERRALOG_KAFKA_TOPIC", defaultTopic),
		WriteTimeout: config.GetEnvDuration("TERRALOG_KAFKA_WRITE_TIMEOUT", defaultWriteTimeout),
	}
}

// Enabled reports whether at least one broker is configured.
func (c *Config) Enabled() bool {
	return len(c.Brokers) > 0
}

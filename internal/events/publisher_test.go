package events

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNilPublisherIsNoOp(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	var p *Publisher

	err := p.PublishBatchIngested(context.Background(), BatchIngested{
		Partition:  "part_2024_03",
		Rows:       5,
		IngestedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Errorf("nil publisher PublishBatchIngested() = %v, want nil", err)
	}

	if err := p.Close(); err != nil {
		t.Errorf("nil publisher Close() = %v, want nil", err)
	}
}

func TestNewPublisherDisabledWithoutBrokers(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if p := NewPublisher(&Config{}, logger); p != nil {
		t.Errorf("NewPublisher() with no brokers = %v, want nil", p)
	}
}

func TestConfigEnabled(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	tests := []struct {
		name    string
		brokers []string
		want    bool
	}{
		{"no brokers", nil, false},
		{"empty list", []string{}, false},
		{"one broker", []string{"localhost:9092"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Brokers: tt.brokers}

			if got := cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	t.Setenv("TERRALOG_KAFKA_BROKERS", "")

	cfg := LoadConfig()

	if cfg.Enabled() {
		t.Error("Enabled() = true with no brokers configured")
	}

	if cfg.Topic != "terralog.readings" {
		t.Errorf("Topic = %q, want %q", cfg.Topic, "terralog.readings")
	}

	if cfg.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want 10s", cfg.WriteTimeout)
	}
}

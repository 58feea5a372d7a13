package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// BatchIngested is the event emitted after a reading batch commits.
type BatchIngested struct {
	Partition  string    `json:"partition"`
	Rows       int       `json:"rows"`
	IngestedAt time.Time `json:"ingested_at"` //nolint:tagliatelle // event wire format
}

// Publisher writes ingestion events to a Kafka topic. A nil *Publisher is a
// valid no-op publisher, matching the nil-disables convention used for
// optional server dependencies.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka publisher, or nil when no brokers are
// configured.
func NewPublisher(cfg *Config, logger *slog.Logger) *Publisher {
	if !cfg.Enabled() {
		return nil
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}

	return &Publisher{writer: writer, logger: logger}
}

// PublishBatchIngested emits a BatchIngested event keyed by partition name,
// so all events for one month land in the same Kafka partition in order.
func (p *Publisher) PublishBatchIngested(ctx context.Context, event BatchIngested) error {
	if p == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal batch event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Partition),
		Value: value,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish batch event: %w", err)
	}

	p.logger.Debug("Published batch ingested event",
		slog.String("partition", event.Partition),
		slog.Int("rows", event.Rows),
	)

	return nil
}

// Close flushes and closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}

	return p.writer.Close()
}

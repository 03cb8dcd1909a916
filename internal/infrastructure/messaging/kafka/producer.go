package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/hukumtek/LexIntel/internal/config"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
)

// ErrProducerClosed is returned when publishing after Close.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer closed")

const eventSource = "lexintel"

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes lifecycle events.  Messages are keyed by entity
// UUID so events about the same version land on the same partition.
type Producer struct {
	writer WriterInterface
	prefix string
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer builds a Producer backed by a kafka.Writer.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.InvalidParam("kafka brokers are required")
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		MaxAttempts:            cfg.ProducerRetries + 1,
		BatchSize:              batch,
		BatchTimeout:           200 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
	}

	return &Producer{
		writer: w,
		prefix: cfg.TopicPrefix,
		logger: log.Named("kafka"),
	}, nil
}

// NewProducerWithWriter wraps an existing writer.  Used by tests.
func NewProducerWithWriter(w WriterInterface, prefix string, log logging.Logger) *Producer {
	return &Producer{writer: w, prefix: prefix, logger: log}
}

// TopicName returns the fully-qualified topic for a suffix.
func (p *Producer) TopicName(suffix string) string {
	if p.prefix == "" {
		return suffix
	}
	return p.prefix + "." + suffix
}

// Publish wraps a payload in an EventEnvelope and writes it to the topic.
func (p *Producer) Publish(ctx context.Context, topicSuffix string, key uuid.UUID, payload any) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if key == uuid.Nil {
		return errors.InvalidParam("event key is required")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event payload")
	}

	env := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     topicSuffix,
		Source:        eventSource,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: envelopeSchemaVersion,
		Payload:       raw,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode event envelope")
	}

	topic := p.TopicName(topicSuffix)
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key.String()),
		Value: value,
		Time:  env.Timestamp,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish event").
			WithDetail(topic)
	}

	p.logger.Debug("published event",
		logging.String("topic", topic),
		logging.String("event_id", env.EventID),
		logging.String("key", key.String()))
	return nil
}

// VersionSegmented publishes a version.segmented event keyed by version.
func (p *Producer) VersionSegmented(ctx context.Context, payload VersionSegmentedPayload) error {
	return p.Publish(ctx, TopicVersionSegmented, payload.VersionID, payload)
}

// VersionFailed publishes a version.failed event keyed by version.
func (p *Producer) VersionFailed(ctx context.Context, payload VersionFailedPayload) error {
	return p.Publish(ctx, TopicVersionFailed, payload.VersionID, payload)
}

// ComparisonCompleted publishes a comparison.completed event keyed by the
// newer version so per-version consumers see comparisons in order.
func (p *Producer) ComparisonCompleted(ctx context.Context, payload ComparisonCompletedPayload) error {
	return p.Publish(ctx, TopicComparisonCompleted, payload.ToVersionID, payload)
}

// ConflictScanCompleted publishes a conflictscan.completed event keyed by
// the scanned version.
func (p *Producer) ConflictScanCompleted(ctx context.Context, payload ConflictScanCompletedPayload) error {
	return p.Publish(ctx, TopicConflictScanCompleted, payload.VersionID, payload)
}

// Close flushes and closes the underlying writer.  Idempotent.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

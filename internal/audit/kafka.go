package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher streams audit events to a Kafka topic for deployments that
// feed the trail into external compliance tooling. Events are keyed by
// entity so per-record history stays ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects to the given brokers. Returns nil if brokers is
// empty (Kafka not configured).
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Entity),
		Value: value,
	}

	// Fire-and-forget produce; a delivery failure is logged, never returned,
	// so audit streaming cannot fail the primary operation.
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("failed to produce audit event",
				"action", event.Action,
				"entity", event.Entity,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes buffered records and closes the Kafka client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// Tee fans one event out to multiple publishers (store + Kafka).
type Tee []Publisher

func (t Tee) Emit(ctx context.Context, event Event) error {
	for _, p := range t {
		if err := p.Emit(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

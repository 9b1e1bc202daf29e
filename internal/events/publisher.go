package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Publisher is the injected notification sink. Implementations must be
// safe to call concurrently; callers treat failures as log-and-forget.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

// Noop drops every event. Used when no broker is configured and in
// tests.
type Noop struct{}

func (Noop) Publish(context.Context, string, string, any) error { return nil }

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) Publisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: DashboardTopic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

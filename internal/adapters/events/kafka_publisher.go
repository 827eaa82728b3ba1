package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/worklane/escrow-engine/internal/contracts"
)

// KafkaPublisher writes envelopes keyed by partition key so events for one
// project land on one partition in order.
type KafkaPublisher struct {
	writer       *kafka.Writer
	topicByEvent map[string]string
	defaultTopic string
}

func NewKafkaPublisher(brokers []string, defaultTopic string, topicByEvent map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
		topicByEvent: topicByEvent,
		defaultTopic: defaultTopic,
	}, nil
}

func (p *KafkaPublisher) PublishDomain(ctx context.Context, event contracts.EventEnvelope) error {
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) PublishAnalytics(ctx context.Context, event contracts.EventEnvelope) error {
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, event contracts.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	topic := p.defaultTopic
	if mapped, ok := p.topicByEvent[event.EventType]; ok && mapped != "" {
		topic = mapped
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.PartitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

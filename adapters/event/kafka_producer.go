package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/config"
)

const (
	TopicLearningEvents = "learning.events"
	TopicProgressEvents = "progress.events"
)

// KafkaProducerClient owns one writer per topic and implements the
// EventPublisher port.
type KafkaProducerClient struct {
	LearningEventsWriter *kafka.Writer
	ProgressEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	learningWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicLearningEvents,
		Balancer: &kafka.LeastBytes{},
	}

	progressWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicProgressEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		LearningEventsWriter: learningWriter,
		ProgressEventsWriter: progressWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishLearning(ctx context.Context, evt service.LearningEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal learning event: %w", err)
	}
	return c.LearningEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.UserID.String()),
		Value: payload,
	})
}

func (c *KafkaProducerClient) PublishProgress(ctx context.Context, evt service.ProgressEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}
	return c.ProgressEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.UserID.String()),
		Value: payload,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.LearningEventsWriter != nil {
		c.LearningEventsWriter.Close()
	}
	if c.ProgressEventsWriter != nil {
		c.ProgressEventsWriter.Close()
	}
}

// internal/infrastructure/messaging/kafka/publisher.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/order"
)

const EventOrderPlaced = "order.placed"

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes order events to Kafka
type Publisher struct {
	writer MessageWriter
	logger logrus.FieldLogger
}

// NewPublisher creates a publisher writing to topic on brokers
func NewPublisher(brokers []string, topic string, logger logrus.FieldLogger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
	}
	return NewPublisherWithWriter(w, logger)
}

// NewPublisherWithWriter creates a publisher over an existing writer
func NewPublisherWithWriter(w MessageWriter, logger logrus.FieldLogger) *Publisher {
	return &Publisher{writer: w, logger: logger.WithField("component", "kafka_publisher")}
}

// PublishOrderPlaced writes the event keyed by order id
func (p *Publisher) PublishOrderPlaced(ctx context.Context, event order.PlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", EventOrderPlaced, err)
	}

	p.logger.WithField("order_id", event.OrderID).Debug("order event published")
	return nil
}

// Close flushes and closes the writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, order.PlacedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

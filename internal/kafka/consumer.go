package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler processes one consumed message. Returning an error stops the
// consume loop; transient problems should be handled (and logged) inside
// the handler instead.
type Handler func(ctx context.Context, msg kafka.Message) error

// Consumer wraps a consumer-group reader. The worker uses one per topic
// to drain flight notification events.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			MinBytes:          1,
			MaxBytes:          10 << 20,
			CommitInterval:    time.Second,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until the context is canceled or the handler fails.
func (c *Consumer) Consume(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handle(ctx, msg); err != nil {
			return err
		}
	}
}

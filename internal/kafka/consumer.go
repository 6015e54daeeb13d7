package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
	log    logger.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log logger.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads messages until ctx is cancelled. Messages that do not decode
// as operation events are logged and skipped; a handler error stops the loop.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, OperationEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		event, err := DecodeEvent(msg.Value)
		if err != nil {
			c.log.Warn("skipping message", "offset", msg.Offset, "partition", msg.Partition, "error", err)
			continue
		}
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

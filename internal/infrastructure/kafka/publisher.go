package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"orderdesk/internal/dto"
)

const publishTimeout = time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes order lifecycle events keyed by order id, so every event
// of one order lands on the same partition in order.
type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewWriter returns an async writer: WriteMessages only queues, and delivery
// failures are reported to the logger once the batch completes. Close flushes
// whatever is still queued.
func NewWriter(brokers []string, topic string, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             completionLogger(logger),
	}
}

func completionLogger(logger *zap.Logger) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		keys := make([]string, 0, len(messages))
		for _, msg := range messages {
			keys = append(keys, string(msg.Key))
		}
		logger.Warn("failed to deliver order events", zap.Strings("orderIds", keys), zap.Error(err))
	}
}

func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	return newPublisher(NewWriter(brokers, topic, logger))
}

func newPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer, now: time.Now}
}

func (p *Publisher) Publish(ctx context.Context, event dto.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  p.now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

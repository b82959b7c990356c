package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"orderdesk/internal/dto"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := newPublisher(writer)
	event := dto.OrderEvent{
		EventID:   "evt-1",
		OrderID:   "abc1234567",
		Type:      dto.EventOrderConfirmed,
		Status:    "confirmed",
		Total:     200,
		Currency:  "UAH",
		Source:    "site",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "abc1234567", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, dto.EventOrderConfirmed, string(msg.Headers[0].Value))

	var decoded dto.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)
}

func TestPublisher_PublishError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("leader not available")}

	err := newPublisher(writer).Publish(context.Background(), dto.OrderEvent{OrderID: "abc1234567"})

	assert.ErrorContains(t, err, "leader not available")
}

func TestPublisher_Close(t *testing.T) {
	writer := &fakeWriter{}

	require.NoError(t, newPublisher(writer).Close())
	assert.True(t, writer.closed)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"kafka-1:9092", "kafka-2:9092"}, "orders.lifecycle", zap.NewNop())

	assert.Equal(t, "orders.lifecycle", w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.True(t, w.Async)
	assert.NotNil(t, w.Completion)
}

func TestCompletionLogger(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	complete := completionLogger(zap.New(core))

	complete([]kafka.Message{{Key: []byte("abc1234567")}}, nil)
	assert.Zero(t, logs.Len())

	complete([]kafka.Message{{Key: []byte("abc1234567")}, {Key: []byte("def7654321")}}, errors.New("broker down"))
	entries := logs.FilterMessage("failed to deliver order events").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{"abc1234567", "def7654321"}, entries[0].ContextMap()["orderIds"])
}

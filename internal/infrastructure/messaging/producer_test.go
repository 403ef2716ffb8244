package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

type typedEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
}

func (e typedEvent) EventType() string { return e.Type }

func TestProducerPublish(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, topic: "order.events"}

	err := p.Publish(context.Background(), "o1", typedEvent{Type: "order.placed", OrderID: "o1"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "o1", string(msg.Key))

	var decoded typedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "o1", decoded.OrderID)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "order.placed", headers["event-type"])
	assert.Equal(t, "application/json", headers["content-type"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducerErrors(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := &Producer{writer: w, topic: "order.events"}

	assert.EqualError(t, p.Publish(context.Background(), "o1", map[string]string{"a": "b"}), "broker down")
	assert.Error(t, p.Publish(context.Background(), "o1", make(chan int)))
}

func TestNoopPublisher(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	n := NewNoopPublisher(logger)
	assert.NoError(t, n.Publish(context.Background(), "o1", struct{}{}))
	assert.NoError(t, n.Close())
}

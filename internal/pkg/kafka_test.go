package pkg

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaProducerPublish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w}

	require.NoError(t, p.Publish(context.Background()))
	assert.Empty(t, w.msgs)

	err := p.Publish(context.Background(),
		EngagementMessage{Key: EngagementKey("Post", 7), Event: "like", Value: []byte(`{"count":1}`)},
		EngagementMessage{Key: EngagementKey("Event", 3), Event: "attend", Value: []byte(`{"count":2}`)},
	)
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "Post:7", string(w.msgs[0].Key))
	assert.Equal(t, `{"count":1}`, string(w.msgs[0].Value))
	require.Len(t, w.msgs[1].Headers, 1)
	assert.Equal(t, "event", w.msgs[1].Headers[0].Key)
	assert.Equal(t, "attend", string(w.msgs[1].Headers[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaProducerPublishFailure(t *testing.T) {
	p := &KafkaProducer{writer: &fakeWriter{err: errors.New("leader not available")}}
	err := p.Publish(context.Background(), EngagementMessage{Key: "Post:1", Event: "like"})
	assert.ErrorIs(t, err, ErrDependency)
}

func TestNewKafkaProducerRequiresTopic(t *testing.T) {
	_, err := NewKafkaProducer(KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)
	var nilProducer *KafkaProducer
	assert.NoError(t, nilProducer.Close())
}

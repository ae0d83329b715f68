package pkg

import (
	"context"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// EngagementMessage 一条互动事件，Key 决定分区
type EngagementMessage struct {
	Key   string
	Event string
	Value []byte
}

// Publisher 投递互动事件
type Publisher interface {
	Publish(ctx context.Context, msgs ...EngagementMessage) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type KafkaProducer struct {
	writer messageWriter
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: brokers and topic are required")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaProducer{writer: w}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Publish 同步写入，事件类型放在 event 头里
func (p *KafkaProducer) Publish(ctx context.Context, msgs ...EngagementMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, kafka.Message{
			Key:     []byte(m.Key),
			Value:   m.Value,
			Headers: []kafka.Header{{Key: "event", Value: []byte(m.Event)}},
		})
	}
	if err := p.writer.WriteMessages(ctx, out...); err != nil {
		return ErrDependency.With("engagement event publish failed").Wrap(err)
	}
	return nil
}

// EngagementKey 同一条目的事件落在同一分区，保持顺序
func EngagementKey(itemType string, itemID uint64) string {
	return itemType + ":" + strconv.FormatUint(itemID, 10)
}

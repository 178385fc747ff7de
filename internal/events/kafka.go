package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Kafka: sipariş olaylarını tek bir topic'e yazar. Key olarak sipariş ID'si
// kullanılır, aynı siparişin olayları aynı partition'a düşer.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (k *Kafka) Publish(ctx context.Context, ev OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: payload,
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

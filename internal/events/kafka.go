package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// defaultEnqueueTimeout bounds the partition lookup done before a message is queued.
const defaultEnqueueTimeout = 2 * time.Second

// KafkaPublisher writes events as JSON to the "<prefix>ledger-events" topic,
// keyed so that events for the same record stay ordered within a partition.
//
// Writes are asynchronous: Publish only queues the message, and delivery
// failures are logged and counted when the batch completes.
type KafkaPublisher struct {
	writer         *kafka.Writer
	enqueueTimeout time.Duration
}

// NewKafkaPublisher creates a publisher for the given brokers.
func NewKafkaPublisher(brokers []string, topicPrefix string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topicPrefix + "ledger-events",
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			Async:                  true,
			Completion:             reportDelivery,
		},
		enqueueTimeout: defaultEnqueueTimeout,
	}
}

// reportDelivery runs when an async batch is acknowledged or abandoned.
func reportDelivery(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		eventType := headerValue(m.Headers, "type")
		deliveryFailures.WithLabelValues(eventType).Inc()
		slog.Warn("Ledger event not delivered", "type", eventType, "key", string(m.Key), "error", err)
	}
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Topic returns the topic events are written to.
func (p *KafkaPublisher) Topic() string {
	return p.writer.Topic
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// The write outlives the request, so it must not inherit its cancellation.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.enqueueTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("queue %s event: %w", event.Type, err)
	}

	slog.DebugContext(ctx, "Queued ledger event", "type", event.Type, "key", event.Key, "topic", p.writer.Topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

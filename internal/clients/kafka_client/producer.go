package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"

	"github.com/spacesedan/emotiscope/internal/models"
)

// ResultProducer publishes completed analyses to Kafka.
type ResultProducer struct {
	producer *kafka.Producer
	topic    string
	timeout  time.Duration
}

func NewResultProducer(cfg KafkaConfig) (*ResultProducer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = DEFAULT_PUBLISH_TIMEOUT
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"client.id":           cfg.ClientID,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
		"message.timeout.ms":  int(timeout.Milliseconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &ResultProducer{producer: p, topic: cfg.Topic, timeout: timeout}, nil
}

// Publish sends item and waits for its delivery report, at most the
// configured publish timeout.
func (rp *ResultProducer) Publish(ctx context.Context, item models.HistoryItem) error {
	ctx, cancel := context.WithTimeout(ctx, rp.timeout)
	defer cancel()

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal history item: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &rp.topic, Partition: kafka.PartitionAny},
		Key:            []byte(uuid.NewString()),
		Value:          data,
		Headers: []kafka.Header{
			{Key: "emotion", Value: []byte(item.Emotion)},
		},
	}

	deliveryChan := make(chan kafka.Event, 1)
	for i := 0; i < MAX_RETRIES; i++ {
		err = rp.producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return fmt.Errorf("[KafkaClient] gave up producing: %w", ctx.Err())
		case <-time.After(RETRY_DELAY):
		}
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce after %d attempts: %w", MAX_RETRIES, err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("[KafkaClient] no delivery report: %w", ctx.Err())
	case ev := <-deliveryChan:
		delivered, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event: %v", ev)
		}
		if delivered.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", delivered.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published analysis result",
		slog.String("topic", rp.topic),
		slog.String("emotion", string(item.Emotion)))
	return nil
}

func (rp *ResultProducer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := rp.producer.Flush(FLUSH_TIMEOUT); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	rp.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}

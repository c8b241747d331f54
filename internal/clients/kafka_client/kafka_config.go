package kafka_client

import (
	"log/slog"
	"os"
	"time"
)

type KafkaConfig struct {
	Broker   string
	Topic    string
	ClientID string
	// PublishTimeout bounds how long Publish waits for a delivery report.
	PublishTimeout time.Duration
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:         getEnv("KAFKA_BROKER", "localhost:29092"),
		Topic:          getEnv("KAFKA_RESULTS_TOPIC", KAFKA_TOPIC_EMOTION_RESULTS),
		ClientID:       getEnv("KAFKA_CLIENT_ID", "emotiscope-client"),
		PublishTimeout: getPublishTimeout(),
	}
}

func getPublishTimeout() time.Duration {
	raw := getEnv("KAFKA_PUBLISH_TIMEOUT", "")
	if raw == "" {
		return DEFAULT_PUBLISH_TIMEOUT
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("[KafkaClient] Invalid KAFKA_PUBLISH_TIMEOUT, using default",
			slog.String("value", raw),
			slog.Duration("default", DEFAULT_PUBLISH_TIMEOUT))
		return DEFAULT_PUBLISH_TIMEOUT
	}
	return d
}

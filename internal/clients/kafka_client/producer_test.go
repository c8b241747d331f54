package kafka_client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/emotiscope/internal/models"
)

func TestGetKafkaConfigPublishTimeout(t *testing.T) {
	t.Setenv("KAFKA_PUBLISH_TIMEOUT", "750ms")
	assert.Equal(t, 750*time.Millisecond, GetKafkaConfig().PublishTimeout)

	t.Setenv("KAFKA_PUBLISH_TIMEOUT", "soon")
	assert.Equal(t, DEFAULT_PUBLISH_TIMEOUT, GetKafkaConfig().PublishTimeout)

	t.Setenv("KAFKA_PUBLISH_TIMEOUT", "-1s")
	assert.Equal(t, DEFAULT_PUBLISH_TIMEOUT, GetKafkaConfig().PublishTimeout)
}

func TestPublishGivesUpWhenBrokerIsUnreachable(t *testing.T) {
	producer, err := NewResultProducer(KafkaConfig{
		Broker:         "127.0.0.1:1",
		Topic:          KAFKA_TOPIC_EMOTION_RESULTS,
		ClientID:       "emotiscope-test",
		PublishTimeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	defer producer.producer.Close()

	start := time.Now()
	err = producer.Publish(context.Background(), models.HistoryItem{
		Text:    "the broker is down",
		Emotion: models.EmotionNeutral,
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

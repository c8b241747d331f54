package kafka_client

import "time"

const (
	KAFKA_TOPIC_EMOTION_RESULTS = "emotion-results" // completed analyses, one history item per message
)

const (
	MAX_RETRIES   = 3
	RETRY_DELAY   = 500 * time.Millisecond
	FLUSH_TIMEOUT = 5000 // ms

	DEFAULT_PUBLISH_TIMEOUT = 5 * time.Second
)

package clients

import "time"

const (
	INITIAL_BACKOFF = 500 * time.Millisecond
	USER_AGENT      = "emotiscope-client/1.0 (+https://github.com/spacesedan/emotiscope)"
)

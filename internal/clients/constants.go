package clients

import "time"

const (
	MAX_RETRIES       = 5
	INITIAL_BACKOFF   = 1 * time.Second
	MAX_BACKOFF       = 32 * time.Second
	MAX_RESOURCE_SIZE = 64 << 20
	USER_AGENT        = "sentilyze-client/1.0 (+https://github.com/spacesedan/sentilyze)"
)

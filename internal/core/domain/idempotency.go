package domain

import (
	"strings"
	"time"
)

// IdempotentResponse is a cached response replayed for a repeated
// Idempotency-Key.
type IdempotentResponse struct {
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// BuildIdempotencyKey scopes a client key to the actor and route.
func BuildIdempotencyKey(actor, method, path, key string) string {
	if actor == "" {
		actor = "anonymous"
	}
	return strings.Join([]string{actor, method, path, key}, ":")
}

package middleware

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"ricemill-erp/internal/core/domain"
	"ricemill-erp/internal/core/ports"
	"ricemill-erp/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	HeaderIdempotencyKey      = "Idempotency-Key"
	HeaderIdempotencyReplayed = "Idempotent-Replayed"
)

// Idempotency replays the first successful response to a POST carrying an
// Idempotency-Key header. Keys are scoped to the caller and path. Cache
// failures degrade to normal processing.
func Idempotency(cache ports.IdempotencyCache, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
		if clientKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := domain.BuildIdempotencyKey(idempotencyScope(c), c.Request.Method, c.Request.URL.Path, clientKey)

		cached, err := cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency lookup failed, processing request")
		} else if cached != nil {
			telemetry.IdempotentReplaysTotal.Inc()
			c.Header(HeaderIdempotencyReplayed, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		resp := &domain.IdempotentResponse{
			StatusCode:  status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
			CreatedAt:   time.Now().UTC(),
		}
		if err := cache.Set(ctx, key, resp, ttl); err != nil {
			log.Warn().Err(err).Msg("failed to store idempotent response")
		}
	}
}

// bodyRecorder tees the response body so it can be cached.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// idempotencyScope keeps anonymous callers from replaying each other's
// responses: they are scoped by client IP.
func idempotencyScope(c *gin.Context) string {
	actor := ActorFrom(c)
	switch {
	case actor.UserID != "":
		return "user:" + actor.UserID
	case actor.Name != "":
		return actor.Name
	default:
		return "ip:" + c.ClientIP()
	}
}

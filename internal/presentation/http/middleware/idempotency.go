package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  logrus.FieldLogger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a POST is retried with the same
// Idempotency-Key on the same endpoint. Only 2xx responses are stored so a
// rejected request can be retried after fixing its input.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		endpoint := c.Request.Method + " " + c.Request.URL.Path

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, endpoint)
		if err != nil {
			config.Log.WithError(err).WithField("endpoint", endpoint).Warn("idempotency lookup failed")
			c.Next()
			return
		}

		if existing != nil {
			if !existing.IsExpired() {
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				c.Abort()
				return
			}
			// The stale row would block storing this response
			if _, err := config.Repo.DeleteExpired(c.Request.Context()); err != nil {
				config.Log.WithError(err).Warn("failed to purge expired idempotency keys")
			}
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().UTC().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
			config.Log.WithError(err).WithField("endpoint", endpoint).Warn("failed to store idempotency key")
		}
	}
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"quillpost/internal/transport/http/response"
)

type AttemptCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP and scope within window.
// A nil counter disables limiting. Counter failures let the request through.
func RateLimit(counter AttemptCounter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		count, err := counter.Hit(c.Request.Context(), scope+":"+c.ClientIP(), window)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rate limit counter failed", "scope", scope, "error", err)
			c.Next()
			return
		}
		if count > int64(limit) {
			c.Header("Retry-After", formatSeconds(window))
			response.Abort(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "too many attempts, try again later")
			return
		}
		c.Next()
	}
}

func formatSeconds(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

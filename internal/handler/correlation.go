package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID propagates the caller's correlation id (or generates one),
// echoes it on the response and binds a request-scoped logger carrying it to
// the request context.
func CorrelationID(root zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		reqLogger := root.With().Str("correlation_id", id).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))
		c.Header(CorrelationIDHeader, id)
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/contexts"
)

// RequestIDHeader is the response header carrying the generated request id.
const RequestIDHeader = "X-Request-Id"

// WithRequestID stores a request id in the request context so the logger
// can correlate the next logs, and echoes it in the response.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)

		ctx := contexts.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

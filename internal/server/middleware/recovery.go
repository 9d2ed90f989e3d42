package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/facturio/facturio/internal/log"
)

// Recovery recovers from handler panics, logs the stack and responds with
// a generic 500 so internals never leak to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "panic recovered",
					log.Any("panic", r),
					log.String("path", c.Request.URL.Path),
					log.String("stack", string(debug.Stack())),
				)

				_ = c.Error(fmt.Errorf("panic: %v", r))
				AbortWithError(c, http.StatusInternalServerError, errors.New("Internal server error"))
			}
		}()

		c.Next()
	}
}

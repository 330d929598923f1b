package middlewares

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// Logger logs every request through the global zap logger.
func Logger() gin.HandlerFunc {
	return ginzap.GinzapWithConfig(zap.S().Desugar(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zap.Field {
			if id := c.Writer.Header().Get(RequestIDHeader); id != "" {
				return []zap.Field{zap.String("request_id", id)}
			}
			return nil
		},
	})
}

// RequestID tags every request with a correlation id, keeping one the
// client already supplied.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

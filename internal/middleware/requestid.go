package middleware

import (
	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Request logging
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or mints one, echoes it on
// the response and logs the request outcome under it
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
		logrus.WithFields(logrus.Fields{
			"request_id": id,                // Correlation id
			"method":     c.Request.Method,  // HTTP method
			"path":       c.FullPath(),      // Route pattern
			"status":     c.Writer.Status(), // Response status
			"client_ip":  c.ClientIP(),      // Caller address
		}).Info("Request handled")
	}
}

package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder receives request lifecycle events.
type HTTPRecorder interface {
	RequestStarted()
	RequestFinished(method, route, status string, seconds float64)
}

func MetricsMiddleware(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		recorder.RequestStarted()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		recorder.RequestFinished(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}

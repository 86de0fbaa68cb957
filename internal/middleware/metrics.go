package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/service"
)

// Metrics observes every completed request on the metrics service. Routes
// that resolved from the Redis cache (marked through SetCacheHit) are
// counted under a separate source so cache effectiveness shows up per path.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			// unmatched routes fall back to the raw path so 404s stay visible
			path = c.Request.URL.Path
		}
		fromCache := false
		if meta := ExtractMeta(c); meta != nil {
			if hit, ok := meta["cache_hit"].(bool); ok {
				fromCache = hit
			}
		}
		metricsSvc.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), fromCache, time.Since(start))
	}
}

package middleware

import (
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 記錄請求數量與延遲
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.RequestStarted()

		c.Next()

		// 標籤使用路由樣板而非實際路徑
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// UnknownRoute 未命中路由时的统一端点标签
const UnknownRoute = "unknown"

// GinHTTPMiddleware 返回记录 HTTP 指标的 Gin 中间件
func GinHTTPMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			// 未命中路由时统一收敛，避免将原始 URL Path 作为标签导致高基数
			endpoint = UnknownRoute
		}

		m.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

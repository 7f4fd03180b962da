package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Logging returns a middleware that logs request and response information.
// The response size matters here: attachment downloads dominate traffic.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()

		c.Next(ctx)

		latency := time.Since(start)
		method := string(c.Request.Method())
		path := string(c.Request.URI().Path())
		statusCode := c.Response.StatusCode()
		bodySize := len(c.Response.Body())
		clientIP := c.ClientIP()

		hlog.CtxInfof(ctx, "[%s] %s %s %d %dB %v",
			clientIP,
			method,
			path,
			statusCode,
			bodySize,
			latency,
		)
	}
}

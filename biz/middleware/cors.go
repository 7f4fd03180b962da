package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/qualityhub/attachment-service/pkg/config"
)

// CORS answers cross-origin requests from the QualityHub web client. Header
// values come from configuration with permissive fallbacks; preflight
// requests are answered directly with 204.
func CORS(cfg *config.CORSConfig) app.HandlerFunc {
	origin, methods, headers, credentials := corsValues(cfg)

	return func(ctx context.Context, c *app.RequestContext) {
		h := &c.Response.Header
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Allow-Credentials", credentials)

		if string(c.Request.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}

func corsValues(cfg *config.CORSConfig) (origin, methods, headers, credentials string) {
	origin, methods, headers, credentials = "*", "GET,POST,PUT,DELETE,OPTIONS", "*", "false"
	if cfg == nil {
		return
	}
	if cfg.AllowOrigin != "" {
		origin = cfg.AllowOrigin
	}
	if cfg.AllowMethods != "" {
		methods = cfg.AllowMethods
	}
	if cfg.AllowHeaders != "" {
		headers = cfg.AllowHeaders
	}
	if cfg.AllowCredentials {
		credentials = "true"
	}
	return
}

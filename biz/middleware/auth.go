package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/qualityhub/attachment-service/pkg/common"
)

// Auth returns a middleware that extracts user information from request
// headers and adds it to the context. This middleware does NOT enforce
// authentication, it only enriches the context so uploads can record who
// sent them.
func Auth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if userHeader := c.GetHeader("X-User-Id"); len(userHeader) > 0 {
			if id, err := strconv.Atoi(string(userHeader)); err == nil && id > 0 {
				ctx = common.ContextWithUserID(ctx, id)
			}
		}

		c.Next(ctx)
	}
}

// RequireAuth returns a middleware that enforces authentication. Requests
// without a valid X-User-Id header are rejected with 401. Deployments where
// the service sits behind an authenticating gateway attach this to the
// mutating routes.
func RequireAuth() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		userHeader := c.GetHeader("X-User-Id")
		if len(userHeader) == 0 {
			c.JSON(consts.StatusUnauthorized, common.CommonResponse{
				Code:  consts.StatusUnauthorized,
				Msg:   http.StatusText(consts.StatusUnauthorized),
				Error: "missing X-User-Id header",
			})
			c.Abort()
			return
		}

		id, err := strconv.Atoi(string(userHeader))
		if err != nil || id <= 0 {
			c.JSON(consts.StatusUnauthorized, common.CommonResponse{
				Code:  consts.StatusUnauthorized,
				Msg:   http.StatusText(consts.StatusUnauthorized),
				Error: "invalid X-User-Id header",
			})
			c.Abort()
			return
		}

		ctx = common.ContextWithUserID(ctx, id)
		c.Next(ctx)
	}
}

package middleware

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/qualityhub/attachment-service/pkg/common"
)

// Recovery returns a middleware that recovers from panics and logs the
// error. The client gets a generic 500; panic details stay in the log.
func Recovery() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				hlog.CtxErrorf(ctx, "panic recovered: %v\n%s", err, string(stack))

				c.JSON(consts.StatusInternalServerError, common.CommonResponse{
					Code:  consts.StatusInternalServerError,
					Msg:   http.StatusText(consts.StatusInternalServerError),
					Error: "internal server error",
				})
				c.Abort()
			}
		}()

		c.Next(ctx)
	}
}

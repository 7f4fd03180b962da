package middleware

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/qualityhub/attachment-service/pkg/common"
	"github.com/qualityhub/attachment-service/pkg/lock"
)

var globalWriteLock *lock.DistributedLock

// InitWriteLock sets the global distributed write lock instance. When set,
// mutating attachment endpoints serialize through this lock; replicas that
// share a SQLite metadata file need it.
func InitWriteLock(l *lock.DistributedLock) {
	globalWriteLock = l
}

// WriteLockMw returns a middleware slice that acquires the global write
// lock. If the lock is not initialized (Redis disabled), returns nil so
// requests pass through without any locking overhead.
func WriteLockMw() []app.HandlerFunc {
	if globalWriteLock == nil {
		return nil
	}
	return []app.HandlerFunc{writeLockHandler()}
}

func writeLockHandler() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		lockID, err := globalWriteLock.Acquire(ctx)
		if err != nil {
			hlog.CtxErrorf(ctx, "write lock acquire failed: %v", err)
			c.JSON(consts.StatusServiceUnavailable, common.CommonResponse{
				Code:  consts.StatusServiceUnavailable,
				Msg:   http.StatusText(consts.StatusServiceUnavailable),
				Error: "service busy, please retry later",
			})
			c.Abort()
			return
		}
		defer func() {
			if releaseErr := globalWriteLock.Release(ctx, lockID); releaseErr != nil {
				hlog.CtxErrorf(ctx, "write lock release failed: %v", releaseErr)
			}
		}()
		c.Next(ctx)
	}
}

package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/qualityhub/attachment-service/pkg/storage"
)

// HealthHandler reports service liveness and which storage backend is
// bound.
type HealthHandler struct {
	store storage.Backend
}

func NewHealthHandler(store storage.Backend) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health answers container health probes.
func (h *HealthHandler) Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]any{
		"status":  "ok",
		"storage": h.store.Kind(),
	})
}

// Ping is a minimal reachability probe.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]any{
		"message": "pong",
	})
}

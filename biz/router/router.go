package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"github.com/qualityhub/attachment-service/biz/handler"
	"github.com/qualityhub/attachment-service/biz/middleware"
)

// RegisterAttachmentRoutes configures HTTP routes for attachment APIs.
// Mutating routes run behind the global write lock when one is configured.
func RegisterAttachmentRoutes(r *server.Hertz, h *handler.AttachmentHandler, health *handler.HealthHandler) {
	if h == nil {
		return
	}

	v1 := r.Group("/api/v1")

	v1.POST("/attachments", withWriteLock(h.Upload)...)
	v1.GET("/attachments", h.List)
	v1.GET("/attachments/:attachmentID", h.Info)
	v1.GET("/attachments/:attachmentID/download", h.Download)
	v1.DELETE("/attachments/:attachmentID", withWriteLock(h.Delete)...)

	if health != nil {
		r.GET("/health", health.Health)
	}
	r.GET("/ping", handler.Ping)
}

func withWriteLock(handlers ...app.HandlerFunc) []app.HandlerFunc {
	return append(middleware.WriteLockMw(), handlers...)
}

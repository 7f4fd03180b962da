package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/qualityhub/attachment-service/biz/service"
	"github.com/qualityhub/attachment-service/pkg/common"
	"github.com/qualityhub/attachment-service/pkg/storage"
)

// AttachmentHandler exposes attachment endpoints backed by the service layer.
type AttachmentHandler struct {
	service *service.Service
}

func NewAttachmentHandler(svc *service.Service) *AttachmentHandler {
	return &AttachmentHandler{service: svc}
}

// Upload handles multipart uploads and persists attachments through the
// service layer. The form carries the payload under "file" plus the entity
// reference fields.
func (h *AttachmentHandler) Upload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, consts.StatusBadRequest, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, consts.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, consts.StatusInternalServerError, err)
		return
	}

	input := &service.AttachmentUploadInput{
		EntityType:  string(c.FormValue("entity_type")),
		EntityID:    string(c.FormValue("entity_id")),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	attachment, err := h.service.Upload(ctx, input)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{
			"attachment": attachment,
		},
	})
}

// List returns the attachments of one entity, newest first.
func (h *AttachmentHandler) List(ctx context.Context, c *app.RequestContext) {
	entityType := strings.TrimSpace(c.Query("entity_type"))
	entityID := strings.TrimSpace(c.Query("entity_id"))

	attachments, err := h.service.List(ctx, entityType, entityID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{
			"attachments": attachments,
		},
	})
}

// Info returns a single attachment record plus the backend's diagnostic
// location.
func (h *AttachmentHandler) Info(ctx context.Context, c *app.RequestContext) {
	info, err := h.service.Info(ctx, c.Param("attachmentID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{
			"attachment": info,
		},
	})
}

// Download streams stored attachment content back to the client.
func (h *AttachmentHandler) Download(ctx context.Context, c *app.RequestContext) {
	attachment, payload, err := h.service.Download(ctx, c.Param("attachmentID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = consts.MIMEApplicationOctetStream
	}
	if attachment.FileName != "" {
		c.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", attachment.FileName))
	}
	c.Data(consts.StatusOK, contentType, payload)
}

// Delete removes the attachment payload and its metadata record.
func (h *AttachmentHandler) Delete(ctx context.Context, c *app.RequestContext) {
	if err := h.service.Delete(ctx, c.Param("attachmentID")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Msg:  http.StatusText(consts.StatusOK),
	})
}

// writeServiceError translates the service and storage error taxonomy into
// HTTP statuses: invalid input and rejected uploads map to 400, missing
// records and payloads to 404, an unconfigured backend to 503, everything
// else to 500.
func writeServiceError(c *app.RequestContext, err error) {
	switch {
	case errors.Is(err, service.ErrAttachmentNotFound), errors.Is(err, storage.ErrNotFound):
		writeError(c, consts.StatusNotFound, err)
	case errors.Is(err, service.ErrInvalidInput), storage.IsValidation(err):
		writeError(c, consts.StatusBadRequest, err)
	case errors.Is(err, storage.ErrNotConfigured):
		writeError(c, consts.StatusServiceUnavailable, err)
	default:
		writeError(c, consts.StatusInternalServerError, err)
	}
}

func writeError(c *app.RequestContext, status int, err error) {
	c.JSON(status, common.CommonResponse{
		Code:  status,
		Msg:   http.StatusText(status),
		Error: err.Error(),
	})
}

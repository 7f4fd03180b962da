package service

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/qualityhub/attachment-service/biz/dal/model"
	"github.com/qualityhub/attachment-service/biz/model/api"
	"github.com/qualityhub/attachment-service/pkg/storage"
)

var (
	// ErrAttachmentNotFound reports a missing attachment record.
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrInvalidInput reports caller mistakes: missing or unknown entity
	// references, empty payloads, unusable filenames.
	ErrInvalidInput = errors.New("invalid input")
)

// AttachmentUploadInput captures metadata and payload for attachment
// uploads.
type AttachmentUploadInput struct {
	EntityType  string
	EntityID    string
	FileName    string
	ContentType string
	Data        []byte
}

// Service orchestrates attachment operations across the metadata store and
// the storage backend.
type Service struct {
	logic *Logic
	store storage.Backend
}

func NewService(db *gorm.DB, store storage.Backend) *Service {
	return &Service{
		logic: NewLogic(db),
		store: store,
	}
}

// --------------------- Model conversion helpers ---------------------

func attachmentModelToAPI(attachment *model.Attachment) *api.Attachment {
	if attachment == nil {
		return nil
	}
	return &api.Attachment{
		AttachmentID: attachment.AttachmentID,
		EntityType:   attachment.EntityType,
		EntityID:     attachment.EntityID,
		FileName:     attachment.FileName,
		ContentType:  attachment.ContentType,
		FileSize:     attachment.FileSize,
		UploadedBy:   attachment.UploadedBy,
		CreatedAt:    attachment.CreatedAt,
	}
}

func attachmentSliceToAPI(attachments []model.Attachment) []*api.Attachment {
	list := make([]*api.Attachment, 0, len(attachments))
	for i := range attachments {
		list = append(list, attachmentModelToAPI(&attachments[i]))
	}
	return list
}

// --------------------- Service helpers ---------------------

func detectContentType(provided string, data []byte) string {
	if provided != "" {
		return provided
	}
	return http.DetectContentType(data)
}

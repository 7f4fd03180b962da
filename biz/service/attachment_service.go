package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/qualityhub/attachment-service/biz/dal/model"
	"github.com/qualityhub/attachment-service/biz/model/api"
	"github.com/qualityhub/attachment-service/pkg/common"
	"github.com/qualityhub/attachment-service/pkg/constants"
	"github.com/qualityhub/attachment-service/pkg/storage"
	"github.com/qualityhub/attachment-service/pkg/util"
)

// Upload validates the input, stores the payload through the storage
// backend and persists the metadata record. If the metadata write fails the
// stored payload is rolled back best-effort so no orphan bytes survive.
func (s *Service) Upload(ctx context.Context, input *AttachmentUploadInput) (*api.Attachment, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input required", ErrInvalidInput)
	}
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: file data is empty", ErrInvalidInput)
	}

	entityType := strings.TrimSpace(input.EntityType)
	entityID := strings.TrimSpace(input.EntityID)
	if entityType == "" || entityID == "" {
		return nil, fmt.Errorf("%w: entity_type and entity_id are required", ErrInvalidInput)
	}
	if !constants.IsValidEntityType(entityType) {
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrInvalidInput, entityType)
	}

	fileName, err := util.SanitizeFileName(input.FileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	contentType := detectContentType(input.ContentType, input.Data)

	stored, err := s.store.SaveFile(ctx, &storage.UploadedFile{
		Data:        input.Data,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(input.Data)),
	})
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	attachment := &model.Attachment{
		AttachmentID: uuid.NewString(),
		EntityType:   entityType,
		EntityID:     entityID,
		FileName:     fileName,
		ContentType:  contentType,
		FileSize:     stored.Size,
		StoragePath:  stored.Path,
	}
	if userID, ok := common.GetUserID(ctx); ok {
		attachment.UploadedBy = int64(userID)
	}

	if err := s.logic.CreateAttachment(ctx, attachment); err != nil {
		// Rollback: delete the stored payload
		_ = s.store.DeleteFile(ctx, stored.Path)
		return nil, err
	}

	return attachmentModelToAPI(attachment), nil
}

// Download returns the metadata record together with the buffered payload.
func (s *Service) Download(ctx context.Context, attachmentID string) (*model.Attachment, []byte, error) {
	if attachmentID == "" {
		return nil, nil, ErrAttachmentNotFound
	}
	attachment, err := s.logic.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.store.GetFile(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch attachment payload: %w", err)
	}
	return attachment, data, nil
}

// Delete removes the payload and then the metadata record. The storage
// delete is idempotent, so a payload that is already gone does not block
// cleaning up the record.
func (s *Service) Delete(ctx context.Context, attachmentID string) error {
	if attachmentID == "" {
		return ErrAttachmentNotFound
	}
	attachment, err := s.logic.GetAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteFile(ctx, attachment.StoragePath); err != nil {
		return fmt.Errorf("delete attachment payload: %w", err)
	}
	return s.logic.DeleteAttachment(ctx, attachmentID)
}

// List returns the attachments of one entity, newest first.
func (s *Service) List(ctx context.Context, entityType, entityID string) ([]*api.Attachment, error) {
	entityType = strings.TrimSpace(entityType)
	entityID = strings.TrimSpace(entityID)
	if entityType == "" || entityID == "" {
		return nil, fmt.Errorf("%w: entity_type and entity_id are required", ErrInvalidInput)
	}

	attachments, err := s.logic.ListAttachmentsByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	return attachmentSliceToAPI(attachments), nil
}

// Info returns the metadata record plus the backend's diagnostic location.
func (s *Service) Info(ctx context.Context, attachmentID string) (*api.AttachmentInfo, error) {
	if attachmentID == "" {
		return nil, ErrAttachmentNotFound
	}
	attachment, err := s.logic.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	return &api.AttachmentInfo{
		Attachment:      *attachmentModelToAPI(attachment),
		StorageKind:     s.store.Kind(),
		StorageLocation: s.store.FullPath(attachment.StoragePath),
	}, nil
}

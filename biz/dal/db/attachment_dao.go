package db

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualityhub/attachment-service/biz/dal/model"
)

// AttachmentDAO handles CRUD operations for attachment metadata.
type AttachmentDAO struct{}

func NewAttachmentDAO() *AttachmentDAO { return &AttachmentDAO{} }

func (dao *AttachmentDAO) Create(ctx context.Context, db *gorm.DB, attachment *model.Attachment) error {
	if attachment == nil {
		return nil
	}
	if attachment.AttachmentID == "" {
		attachment.AttachmentID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(attachment).Error
}

func (dao *AttachmentDAO) GetByAttachmentID(ctx context.Context, db *gorm.DB, attachmentID string) (*model.Attachment, error) {
	var attachment model.Attachment
	if err := db.WithContext(ctx).Where("attachment_id = ?", attachmentID).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (dao *AttachmentDAO) ListByEntity(ctx context.Context, db *gorm.DB, entityType, entityID string) ([]model.Attachment, error) {
	var attachments []model.Attachment
	if err := db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteByAttachmentID removes the metadata row for good. Attachment
// deletion is a hard delete: once the payload is gone from storage the
// record has nothing left to describe.
func (dao *AttachmentDAO) DeleteByAttachmentID(ctx context.Context, db *gorm.DB, attachmentID string) error {
	return db.WithContext(ctx).Unscoped().Where("attachment_id = ?", attachmentID).Delete(&model.Attachment{}).Error
}

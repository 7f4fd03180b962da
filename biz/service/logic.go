package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/qualityhub/attachment-service/biz/dal/db"
	"github.com/qualityhub/attachment-service/biz/dal/model"
)

// Logic contains business rules on top of data persistence.
type Logic struct {
	db            *gorm.DB
	attachmentDAO *db.AttachmentDAO
}

func NewLogic(dbConn *gorm.DB) *Logic {
	return &Logic{
		db:            dbConn,
		attachmentDAO: db.NewAttachmentDAO(),
	}
}

func (l *Logic) CreateAttachment(ctx context.Context, attachment *model.Attachment) error {
	return l.attachmentDAO.Create(ctx, l.db, attachment)
}

func (l *Logic) GetAttachment(ctx context.Context, attachmentID string) (*model.Attachment, error) {
	attachment, err := l.attachmentDAO.GetByAttachmentID(ctx, l.db, attachmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	return attachment, err
}

func (l *Logic) ListAttachmentsByEntity(ctx context.Context, entityType, entityID string) ([]model.Attachment, error) {
	return l.attachmentDAO.ListByEntity(ctx, l.db, entityType, entityID)
}

func (l *Logic) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return l.attachmentDAO.DeleteByAttachmentID(ctx, l.db, attachmentID)
}

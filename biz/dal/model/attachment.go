package model

import (
	"time"

	"gorm.io/gorm"
)

// Attachment stores metadata for files attached to test management
// entities. The payload itself lives in the storage backend under
// StoragePath; this record carries everything needed to list, download
// and delete it.
type Attachment struct {
	ID           uint           `gorm:"primaryKey" json:"id,omitempty"`
	CreatedAt    time.Time      `json:"created_at,omitempty"`
	UpdatedAt    time.Time      `json:"updated_at,omitempty"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	AttachmentID string         `gorm:"column:attachment_id;uniqueIndex:idx_attachment" json:"attachment_id,omitempty"`
	EntityType   string         `gorm:"column:entity_type;index:idx_attachment_entity" json:"entity_type,omitempty"`
	EntityID     string         `gorm:"column:entity_id;index:idx_attachment_entity" json:"entity_id,omitempty"`
	FileName     string         `gorm:"column:file_name" json:"file_name,omitempty"`
	ContentType  string         `gorm:"column:content_type" json:"content_type,omitempty"`
	FileSize     int64          `gorm:"column:file_size" json:"file_size,omitempty"`
	StoragePath  string         `gorm:"column:storage_path;type:text" json:"storage_path,omitempty"`
	UploadedBy   int64          `gorm:"column:uploaded_by" json:"uploaded_by,omitempty"`
}

// TableName overrides gorm to use the attachment table.
func (Attachment) TableName() string {
	return "attachment"
}

// Package api provides API request/response models for attachment
// management.
package api

import "time"

// Attachment represents an attachment record exposed over HTTP.
type Attachment struct {
	AttachmentID string    `json:"attachment_id"`
	EntityType   string    `json:"entity_type"`
	EntityID     string    `json:"entity_id"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type,omitempty"`
	FileSize     int64     `json:"file_size"`
	UploadedBy   int64     `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttachmentInfo augments Attachment with the backend's diagnostic view of
// where the payload lives. The location is informational; it may not be
// directly reachable (private buckets, server-local paths).
type AttachmentInfo struct {
	Attachment
	StorageKind     string `json:"storage_kind,omitempty"`
	StorageLocation string `json:"storage_location,omitempty"`
}

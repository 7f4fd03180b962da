package storage

import (
	"fmt"
	"strings"
)

// MaxFileSize is the hard upload limit shared by every backend.
const MaxFileSize = 50 * 1024 * 1024 // 50 MiB

// allowedContentTypes is the fixed upload allow-list: common image formats,
// PDF, plain text, JSON/XML, zip archives and a couple of video formats.
var allowedContentTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,

	"application/pdf": true,

	"text/plain": true,
	"text/csv":   true,

	"application/json": true,
	"application/xml":  true,
	"text/xml":         true,

	"application/zip":              true,
	"application/x-zip-compressed": true,

	"video/mp4":  true,
	"video/webm": true,
}

// Validate applies the shared upload rules. Both providers call it before
// touching disk or network, so invalid input never leaves a partial artifact.
func Validate(file *UploadedFile) error {
	if file.Size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, file.Size, MaxFileSize)
	}
	if !allowedContentTypes[normalizeContentType(file.ContentType)] {
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, file.ContentType)
	}
	return nil
}

// normalizeContentType lowercases the declared type and strips parameters
// such as "; charset=utf-8" so they cannot bypass the allow-list.
func normalizeContentType(contentType string) string {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(normalized, ";"); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	return normalized
}

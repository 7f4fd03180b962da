// Package storage provides the attachment file-storage abstraction for
// QualityHub. A single Backend contract is satisfied by a local filesystem
// provider and an S3-compatible object-storage provider, selected once at
// startup from configuration. Validation rules and key generation are shared
// so behavior is identical regardless of which backend is active.
package storage

import "context"

// UploadedFile is the immutable input to SaveFile: a complete in-memory
// buffer plus the metadata the caller declared for it. The storage layer
// neither mutates nor retains it beyond the call.
type UploadedFile struct {
	Data        []byte
	FileName    string // original client filename; never becomes part of the key
	ContentType string // declared MIME type
	Size        int64  // declared size in bytes
}

// StoredFile is the immutable result of a successful SaveFile. Path is the
// backend-relative key and is sufficient on its own for later GetFile,
// DeleteFile and Exists calls against the same backend.
type StoredFile struct {
	Path        string
	Size        int64
	ContentType string
	FileName    string // original filename, kept for download headers
}

// Backend is the storage contract implemented by the local-filesystem and
// object-storage providers. The contract is buffer-in/buffer-out: GetFile
// drains any underlying stream fully before returning so both backends stay
// interchangeable.
type Backend interface {
	// SaveFile validates the upload, generates a collision-resistant key and
	// writes the buffer. Validation failures surface before any I/O, so no
	// partial artifact is left behind on invalid input.
	SaveFile(ctx context.Context, file *UploadedFile) (*StoredFile, error)

	// GetFile returns the complete content stored under key, or ErrNotFound
	// when the key does not exist.
	GetFile(ctx context.Context, key string) ([]byte, error)

	// DeleteFile removes the content stored under key. Deleting a key that
	// does not exist is a successful no-op.
	DeleteFile(ctx context.Context, key string) error

	// Exists reports whether key is present. It never fails: any underlying
	// error is reported as false.
	Exists(ctx context.Context, key string) bool

	// FullPath renders a backend-specific absolute location for key, for
	// diagnostics and display only, never for addressing.
	FullPath(key string) string

	// Kind returns the backend identifier, KindLocal or KindObjectStorage.
	Kind() string
}

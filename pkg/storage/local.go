package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage implements Backend against a directory tree, partitioned by
// year/month subdirectories created on demand.
type LocalStorage struct {
	rootDir string
}

// NewLocalStorage creates the local-filesystem provider, creating rootDir
// recursively when absent.
func NewLocalStorage(rootDir string) (*LocalStorage, error) {
	if rootDir == "" {
		rootDir = DefaultLocalRoot
	}
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{rootDir: rootDir}, nil
}

// SaveFile validates the upload, then writes it under a freshly generated
// year/month key.
func (s *LocalStorage) SaveFile(ctx context.Context, file *UploadedFile) (*StoredFile, error) {
	if err := Validate(file); err != nil {
		return nil, err
	}

	key := GenerateKey(file.FileName, time.Now())
	fullPath := s.resolve(key)

	// Concurrent saves may race on the same month directory; MkdirAll
	// tolerates "already exists".
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, ioError("save", key, err)
	}
	if err := os.WriteFile(fullPath, file.Data, 0o644); err != nil {
		_ = os.Remove(fullPath)
		return nil, ioError("save", key, err)
	}

	return &StoredFile{
		Path:        key,
		Size:        file.Size,
		ContentType: file.ContentType,
		FileName:    file.FileName,
	}, nil
}

// GetFile reads the full content stored under key.
func (s *LocalStorage) GetFile(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, ioError("get", key, err)
	}
	return data, nil
}

// DeleteFile removes the file under key. A missing file is a successful
// no-op.
func (s *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	if err := os.Remove(s.resolve(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ioError("delete", key, err)
	}
	return nil
}

// Exists is a direct boolean check against the resolved path.
func (s *LocalStorage) Exists(ctx context.Context, key string) bool {
	_, err := os.Stat(s.resolve(key))
	return err == nil
}

// FullPath returns the absolute filesystem path for key. Diagnostic only;
// addressing always goes through the relative key.
func (s *LocalStorage) FullPath(key string) string {
	abs, err := filepath.Abs(s.resolve(key))
	if err != nil {
		return s.resolve(key)
	}
	return abs
}

// Kind returns KindLocal.
func (s *LocalStorage) Kind() string { return KindLocal }

func (s *LocalStorage) resolve(key string) string {
	return filepath.Join(s.rootDir, filepath.FromSlash(key))
}

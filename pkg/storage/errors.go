package storage

import (
	"errors"
	"fmt"
)

// Validation failures. Both surface before any I/O and are identical across
// backends.
var (
	ErrFileTooLarge         = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedMediaType = errors.New("file media type is not allowed")
)

var (
	// ErrNotFound reports that the requested key does not exist. GetFile is
	// the only operation that returns it: deletes are idempotent and Exists
	// reports false instead.
	ErrNotFound = errors.New("stored file not found")

	// ErrNotConfigured reports that the object-storage backend was selected
	// without a bucket. Construction still succeeds so dependency wiring
	// cannot crash at boot; every data operation fails with this error at
	// call time.
	ErrNotConfigured = errors.New("object storage bucket not configured")
)

// IsValidation reports whether err is one of the upload validation failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrUnsupportedMediaType)
}

// IOError wraps any lower-level I/O or network failure not otherwise
// classified, such as permission denied, disk full, or a transport error.
type IOError struct {
	Op  string // failing operation: "save", "get", "delete"
	Key string // storage key involved, if any
	Err error
}

func (e *IOError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioError(op, key string, err error) error {
	return &IOError{Op: op, Key: key, Err: err}
}

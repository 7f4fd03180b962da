package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateKey produces the relative storage key for a new upload:
// "{year}/{zero-padded month}/{random 128-bit id}{extension}". The id comes
// from a cryptographic random source, so concurrent saves need no
// coordination, and the original filename never leaks into the key. The
// year/month partition keeps any one directory or prefix from growing
// unbounded.
func GenerateKey(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s/%s%s", now.Format("2006/01"), uuid.NewString(), ext)
}

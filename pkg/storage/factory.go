package storage

import (
	"fmt"
	"os"
	"strings"
)

// Backend kinds.
const (
	KindLocal         = "local"
	KindObjectStorage = "object-storage"
)

const (
	// DefaultLocalRoot is where the local backend stores files unless
	// configured otherwise.
	DefaultLocalRoot = "data/uploads"

	// DefaultRegion applies when the object-storage region is unset.
	DefaultRegion = "us-east-1"

	// EnvStorageKind is the environment fallback consulted when the
	// configured kind is empty.
	EnvStorageKind = "STORAGE_KIND"
)

// Config selects and parameterizes the storage backend. It is read once at
// startup and immutable afterwards; swapping backends is a restart-time
// decision.
type Config struct {
	Kind          string              `yaml:"kind"`
	Local         LocalConfig         `yaml:"local"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
}

// LocalConfig holds local-filesystem backend settings.
type LocalConfig struct {
	RootDir string `yaml:"root_dir"`
}

// ObjectStorageConfig holds S3-compatible backend settings. Endpoint is
// required for non-AWS services and implies path-style addressing; static
// credentials are optional (the default AWS chain applies otherwise).
type ObjectStorageConfig struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// New binds the configured backend. Selection runs exactly once at startup:
// explicit kind first, then the STORAGE_KIND environment variable, then
// local. There is no per-call re-selection and no hot swap.
func New(cfg Config) (Backend, error) {
	switch kind := resolveKind(cfg.Kind); kind {
	case KindLocal:
		return NewLocalStorage(cfg.Local.RootDir)
	case KindObjectStorage, "s3": // "s3" kept as an operator-facing alias
		return NewObjectStorage(cfg.ObjectStorage)
	default:
		return nil, fmt.Errorf("unsupported storage kind: %q", kind)
	}
}

func resolveKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = strings.ToLower(strings.TrimSpace(os.Getenv(EnvStorageKind)))
	}
	if kind == "" {
		kind = KindLocal
	}
	return kind
}

// DefaultConfig returns the parameter defaults used when the storage
// section is absent entirely. Kind is left empty so New still consults
// STORAGE_KIND before settling on the local backend.
func DefaultConfig() Config {
	return Config{
		Local:         LocalConfig{RootDir: DefaultLocalRoot},
		ObjectStorage: ObjectStorageConfig{Region: DefaultRegion},
	}
}

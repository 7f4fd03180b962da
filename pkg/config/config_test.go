package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qualityhub/attachment-service/pkg/storage"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertDefaultConfig(t, cfg)
}

func TestLoadWithPartialConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
database:
  driver: ""
  sqlite: {}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected server address :9090, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected database driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/qualityhub.db" {
		t.Fatalf("expected sqlite path data/qualityhub.db, got %s", cfg.Database.SQLite.Path)
	}
	if cfg.Storage.Local.RootDir != storage.DefaultLocalRoot {
		t.Fatalf("expected default upload root, got %s", cfg.Storage.Local.RootDir)
	}
}

func TestLoadStorageSection(t *testing.T) {
	path := writeConfig(t, `
storage:
  kind: object-storage
  object_storage:
    bucket: qh-attachments
    region: eu-west-1
    endpoint: http://minio.internal:9000
    access_key: qh-access
    secret_key: qh-secret
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	st := cfg.Storage
	if st.Kind != storage.KindObjectStorage {
		t.Fatalf("expected kind %s, got %q", storage.KindObjectStorage, st.Kind)
	}
	if st.ObjectStorage.Bucket != "qh-attachments" {
		t.Fatalf("unexpected bucket %q", st.ObjectStorage.Bucket)
	}
	if st.ObjectStorage.Region != "eu-west-1" {
		t.Fatalf("unexpected region %q", st.ObjectStorage.Region)
	}
	if st.ObjectStorage.Endpoint != "http://minio.internal:9000" {
		t.Fatalf("unexpected endpoint %q", st.ObjectStorage.Endpoint)
	}
}

func TestLoadLeavesStorageKindUnresolved(t *testing.T) {
	path := writeConfig(t, `
storage:
  local:
    root_dir: /var/lib/qualityhub/uploads
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	// Kind resolution (config, then STORAGE_KIND, then local) belongs to
	// storage.New; the loader must not pre-empt the environment fallback.
	if cfg.Storage.Kind != "" {
		t.Fatalf("expected empty kind, got %q", cfg.Storage.Kind)
	}
	if cfg.Storage.Local.RootDir != "/var/lib/qualityhub/uploads" {
		t.Fatalf("unexpected root dir %q", cfg.Storage.Local.RootDir)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
upload:
  max_size: 1048576
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for unknown config fields")
	}
}

func assertDefaultConfig(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/qualityhub.db" {
		t.Fatalf("expected default sqlite path data/qualityhub.db, got %s", cfg.Database.SQLite.Path)
	}
	if cfg.Storage.Kind != "" {
		t.Fatalf("expected storage kind to stay unresolved, got %q", cfg.Storage.Kind)
	}
	if cfg.Storage.Local.RootDir != storage.DefaultLocalRoot {
		t.Fatalf("expected default upload root, got %s", cfg.Storage.Local.RootDir)
	}
}

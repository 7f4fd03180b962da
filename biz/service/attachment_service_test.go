package service

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qualityhub/attachment-service/biz/dal/model"
	"github.com/qualityhub/attachment-service/pkg/common"
	"github.com/qualityhub/attachment-service/pkg/storage"
)

func setupService(t *testing.T) (*Service, *gorm.DB, string) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&model.Attachment{}); err != nil {
		t.Fatalf("migrate tables: %v", err)
	}

	root := t.TempDir()
	store, err := storage.NewLocalStorage(root)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	return NewService(gdb, store), gdb, root
}

func uploadInput(name string, data []byte) *AttachmentUploadInput {
	return &AttachmentUploadInput{
		EntityType:  "test_case",
		EntityID:    "tc-1",
		FileName:    name,
		ContentType: "image/png",
		Data:        data,
	}
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return count
}

func TestServiceUploadDownloadDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, root := setupService(t)

	data := bytes.Repeat([]byte{0x5A}, 512)
	uploaded, err := svc.Upload(ctx, uploadInput("screenshot.png", data))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.AttachmentID == "" {
		t.Error("expected attachment_id to be set")
	}
	if uploaded.FileSize != 512 {
		t.Errorf("expected size 512, got %d", uploaded.FileSize)
	}
	if uploaded.FileName != "screenshot.png" {
		t.Errorf("unexpected file name %q", uploaded.FileName)
	}
	if got := countFiles(t, root); got != 1 {
		t.Fatalf("expected 1 stored file, found %d", got)
	}

	attachment, payload, err := svc.Download(ctx, uploaded.AttachmentID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(payload, data) {
		t.Fatalf("payload mismatch: got %d bytes", len(payload))
	}
	if attachment.ContentType != "image/png" {
		t.Errorf("unexpected content type %q", attachment.ContentType)
	}

	if err := svc.Delete(ctx, uploaded.AttachmentID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := svc.Download(ctx, uploaded.AttachmentID); !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound after delete, got %v", err)
	}
	if got := countFiles(t, root); got != 0 {
		t.Fatalf("expected payload to be removed, found %d files", got)
	}
}

func TestServiceUploadValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, root := setupService(t)

	t.Run("NilInput", func(t *testing.T) {
		if _, err := svc.Upload(ctx, nil); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("EmptyData", func(t *testing.T) {
		input := uploadInput("empty.png", nil)
		if _, err := svc.Upload(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("MissingEntity", func(t *testing.T) {
		input := uploadInput("a.png", []byte("x"))
		input.EntityID = "  "
		if _, err := svc.Upload(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("UnknownEntityType", func(t *testing.T) {
		input := uploadInput("a.png", []byte("x"))
		input.EntityType = "galaxy"
		if _, err := svc.Upload(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("TraversalFileName", func(t *testing.T) {
		input := uploadInput("../../etc/passwd", []byte("x"))
		if _, err := svc.Upload(ctx, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		input := uploadInput("tool.exe", []byte("MZ"))
		input.ContentType = "application/x-msdownload"
		if _, err := svc.Upload(ctx, input); !errors.Is(err, storage.ErrUnsupportedMediaType) {
			t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
		}
	})

	if got := countFiles(t, root); got != 0 {
		t.Fatalf("expected no stored files after rejected uploads, found %d", got)
	}
}

func TestServiceUploadRecordsUploader(t *testing.T) {
	svc, _, _ := setupService(t)

	ctx := common.ContextWithUserID(context.Background(), 42)
	uploaded, err := svc.Upload(ctx, uploadInput("by-user.png", []byte("x")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.UploadedBy != 42 {
		t.Fatalf("expected uploader 42, got %d", uploaded.UploadedBy)
	}
}

func TestServiceUploadRollbackOnMetadataFailure(t *testing.T) {
	ctx := context.Background()
	svc, gdb, root := setupService(t)

	// Force the metadata write to fail after the payload is stored.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	if _, err := svc.Upload(ctx, uploadInput("orphan.png", []byte("x"))); err == nil {
		t.Fatalf("expected upload to fail with a closed database")
	}
	if got := countFiles(t, root); got != 0 {
		t.Fatalf("expected stored payload to be rolled back, found %d files", got)
	}
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	for _, name := range []string{"one.png", "two.png"} {
		if _, err := svc.Upload(ctx, uploadInput(name, []byte("x"))); err != nil {
			t.Fatalf("Upload %s: %v", name, err)
		}
	}
	other := uploadInput("elsewhere.png", []byte("x"))
	other.EntityID = "tc-2"
	if _, err := svc.Upload(ctx, other); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	attachments, err := svc.List(ctx, "test_case", "tc-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(attachments))
	}

	if _, err := svc.List(ctx, "", "tc-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing entity type, got %v", err)
	}
}

func TestServiceInfo(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	uploaded, err := svc.Upload(ctx, uploadInput("traced.png", []byte("x")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	info, err := svc.Info(ctx, uploaded.AttachmentID)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.StorageKind != storage.KindLocal {
		t.Errorf("expected kind %q, got %q", storage.KindLocal, info.StorageKind)
	}
	if !filepath.IsAbs(info.StorageLocation) {
		t.Errorf("expected absolute diagnostic location, got %q", info.StorageLocation)
	}

	if _, err := svc.Info(ctx, "missing"); !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}
}

func TestServiceDeleteWithMissingPayload(t *testing.T) {
	ctx := context.Background()
	svc, _, root := setupService(t)

	uploaded, err := svc.Upload(ctx, uploadInput("fleeting.png", []byte("x")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// Remove the payload behind the service's back; delete must still
	// clean up the metadata because storage deletes are idempotent.
	info, err := svc.Info(ctx, uploaded.AttachmentID)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if err := os.Remove(info.StorageLocation); err != nil {
		t.Fatalf("remove payload: %v", err)
	}

	if err := svc.Delete(ctx, uploaded.AttachmentID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Info(ctx, uploaded.AttachmentID); !errors.Is(err, ErrAttachmentNotFound) {
		t.Fatalf("expected record to be gone, got %v", err)
	}
	if got := countFiles(t, root); got != 0 {
		t.Fatalf("expected no files left, found %d", got)
	}
}

func TestServiceDownloadWithMissingPayload(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	uploaded, err := svc.Upload(ctx, uploadInput("ghost.png", []byte("x")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	info, err := svc.Info(ctx, uploaded.AttachmentID)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if err := os.Remove(info.StorageLocation); err != nil {
		t.Fatalf("remove payload: %v", err)
	}

	_, _, err = svc.Download(ctx, uploaded.AttachmentID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected storage.ErrNotFound, got %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/qualityhub/attachment-service/biz/dal/model"
	"github.com/qualityhub/attachment-service/pkg/config"
	"github.com/qualityhub/attachment-service/pkg/database"
	"github.com/qualityhub/attachment-service/pkg/storage"
)

// Migration tool: moves every attachment payload from the configured storage
// backend to the target backend and rewrites storage_path to the new key.
// Usage: go run script/migrate_storage_backend.go -target=object-storage
var (
	configPath   = flag.String("config", "config.yaml", "path to the service config file")
	targetKind   = flag.String("target", "", "backend to migrate payloads to: local or object-storage")
	deleteSource = flag.Bool("delete-source", false, "remove each payload from the source backend after a successful copy")
	dryRun       = flag.Bool("dry-run", false, "report what would be migrated without copying anything")
)

func main() {
	flag.Parse()

	if *targetKind == "" {
		log.Fatalf("missing -target: expected %q or %q", storage.KindLocal, storage.KindObjectStorage)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	source, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("bind source backend: %v", err)
	}

	targetCfg := cfg.Storage
	targetCfg.Kind = *targetKind
	target, err := storage.New(targetCfg)
	if err != nil {
		log.Fatalf("bind target backend: %v", err)
	}

	if source.Kind() == target.Kind() {
		log.Fatalf("source and target are both %s, nothing to migrate", source.Kind())
	}

	log.Printf("migrating attachment payloads: %s -> %s", source.Kind(), target.Kind())
	if err := migratePayloads(context.Background(), db, source, target); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

func migratePayloads(ctx context.Context, db *gorm.DB, source, target storage.Backend) error {
	var attachments []model.Attachment
	if err := db.WithContext(ctx).Find(&attachments).Error; err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}

	if len(attachments) == 0 {
		log.Println("no attachments to migrate")
		return nil
	}
	log.Printf("found %d attachment(s)", len(attachments))

	var migrated, missing int
	for i, att := range attachments {
		log.Printf("[%d/%d] %s (%s)", i+1, len(attachments), att.AttachmentID, att.StoragePath)

		data, err := source.GetFile(ctx, att.StoragePath)
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("  payload missing on %s, skipping", source.Kind())
			missing++
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", att.StoragePath, err)
		}

		if *dryRun {
			log.Printf("  would copy %d bytes", len(data))
			migrated++
			continue
		}

		stored, err := target.SaveFile(ctx, &storage.UploadedFile{
			Data:        data,
			FileName:    att.FileName,
			ContentType: att.ContentType,
			Size:        int64(len(data)),
		})
		if err != nil {
			return fmt.Errorf("store %s on %s: %w", att.AttachmentID, target.Kind(), err)
		}

		if err := db.WithContext(ctx).
			Model(&model.Attachment{}).
			Where("id = ?", att.ID).
			Update("storage_path", stored.Path).Error; err != nil {
			// Keep the source copy authoritative: drop the fresh copy so a
			// rerun starts from a clean state.
			_ = target.DeleteFile(ctx, stored.Path)
			return fmt.Errorf("update record %s: %w", att.AttachmentID, err)
		}

		if *deleteSource {
			_ = source.DeleteFile(ctx, att.StoragePath)
		}
		migrated++
	}

	if *dryRun {
		log.Printf("dry run: %d payload(s) to migrate, %d missing", migrated, missing)
		return nil
	}
	log.Printf("migrated %d payload(s), %d missing", migrated, missing)
	return nil
}

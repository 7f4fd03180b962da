package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qualityhub/attachment-service/biz/dal/model"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Auto migrate all tables
	if err := db.AutoMigrate(&model.Attachment{}); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestAttachment persists an attachment row with default values
func CreateTestAttachment(t *testing.T, db *gorm.DB, entityType, entityID, fileName string) *model.Attachment {
	t.Helper()
	dao := NewAttachmentDAO()
	attachment := &model.Attachment{
		EntityType:  entityType,
		EntityID:    entityID,
		FileName:    fileName,
		ContentType: "application/pdf",
		FileSize:    1024,
		StoragePath: fmt.Sprintf("2026/01/test-%s", fileName),
		UploadedBy:  1,
	}
	if err := dao.Create(context.Background(), db, attachment); err != nil {
		t.Fatalf("Failed to create test attachment: %v", err)
	}
	return attachment
}

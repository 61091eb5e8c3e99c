package helpers

import (
	"testing"

	"gorm.io/gorm"

	"burnrate/internal/infrastructure/database"
)

// NewTestDB opens an isolated in-memory database with the full schema
// migrated, closed automatically when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

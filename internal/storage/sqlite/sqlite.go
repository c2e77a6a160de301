// internal/storage/sqlite/sqlite.go
package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rheadawn/stars/pkg/record"
)

// Backend persists segment records to a local SQLite file via GORM.
type Backend struct {
	path string
	db   *gorm.DB
}

// New creates a backend writing to the given database file.
func New(path string) *Backend {
	return &Backend{path: path}
}

// Init opens the database and migrates the segment table.
func (b *Backend) Init() error {
	db, err := gorm.Open(sqlite.Open(b.path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("opening sqlite database %q: %w", b.path, err)
	}
	if err := db.AutoMigrate(&record.Segment{}); err != nil {
		return fmt.Errorf("migrating segment table: %w", err)
	}
	b.db = db
	return nil
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordSegment inserts one segment row.
func (b *Backend) RecordSegment(r *record.Segment) error {
	if b.db == nil {
		return fmt.Errorf("sqlite backend not initialised")
	}
	return b.db.Create(r).Error
}

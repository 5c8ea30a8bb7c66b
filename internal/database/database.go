package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/refbase/refbase/internal/entities"
)

// Database owns the sqlite handle and the schema. Opening is idempotent:
// migrations only create what is absent and never alter existing data.
type Database struct {
	DB *gorm.DB
}

// New creates the database file (and its parent directory) if needed and
// migrates the schema.
func New(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Item{},
		&entities.MetadataField{},
		&entities.Creator{},
		&entities.ItemCreator{},
		&entities.Tag{},
		&entities.ItemTag{},
		&entities.Collection{},
		&entities.ItemCollection{},
		&entities.Attachment{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Package database provides SQLite driver implementation with optimizations.
package database

import (
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resumeforge/resumeforge/pkg/logger"
)

// Driver defines the database driver interface for supporting multiple databases
type Driver interface {
	// Name returns the driver name (e.g., "sqlite", "postgres", "mysql")
	Name() string

	// Open opens a database connection and returns a GORM dialector
	Open(dsn string) (gorm.Dialector, error)

	// PreMigrationConfig applies database configurations before migration
	// (connection pool, WAL mode). Foreign key constraints must NOT be
	// enabled here to avoid migration failures with orphan records.
	PreMigrationConfig(db *gorm.DB) error

	// PostMigrationConfig applies database configurations after migration
	// (foreign key constraints)
	PostMigrationConfig(db *gorm.DB) error
}

// SQLiteDriver implements the Driver interface for SQLite database
type SQLiteDriver struct{}

// Name returns the driver name
func (d *SQLiteDriver) Name() string {
	return "sqlite"
}

// Open opens a SQLite database connection
func (d *SQLiteDriver) Open(dsn string) (gorm.Dialector, error) {
	return sqlite.Open(dsn), nil
}

// PreMigrationConfig applies SQLite configurations before migration
func (d *SQLiteDriver) PreMigrationConfig(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Single connection to avoid concurrent write conflicts
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	// WAL mode improves concurrent read performance
	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		logger.Warn("Failed to enable WAL mode", zap.Error(err))
	}

	if err := db.Exec("PRAGMA synchronous = NORMAL").Error; err != nil {
		logger.Warn("Failed to set synchronous mode", zap.Error(err))
	}

	return nil
}

// PostMigrationConfig applies SQLite configurations after migration
func (d *SQLiteDriver) PostMigrationConfig(db *gorm.DB) error {
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		logger.Warn("Failed to enable foreign keys", zap.Error(err))
	}
	return nil
}

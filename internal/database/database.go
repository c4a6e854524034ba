// Package database provides database initialization and connection management.
// It uses GORM with SQLite for embedded database storage, with driver abstraction
// for future extensibility to support other relational databases.
package database

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

const (
	// DefaultDBPath is the hardcoded database file path
	// This path is fixed to prevent data loss from configuration errors
	DefaultDBPath = "./data/resumeforge.db"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init initializes the database connection and performs auto-migration.
// This function is safe to call multiple times; only the first call will take effect.
func Init() error {
	return InitWithPath(DefaultDBPath)
}

// InitWithPath initializes the database with a custom path.
// This function is primarily for testing purposes.
// For production use, call Init() instead which uses the hardcoded path.
func InitWithPath(dbPath string) error {
	var initErr error
	once.Do(func() {
		initErr = initDB(dbPath)
	})
	return initErr
}

// initDB creates the database connection and runs migrations
func initDB(dbPath string) error {
	logger.Info("Initializing database", zap.String("path", dbPath))

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("Failed to create database directory", zap.Error(err), zap.String("dir", dir))
		return errors.Wrap(errors.ErrCodeDBConnection, "failed to create database directory", err)
	}

	driver := &SQLiteDriver{}

	gormLog := gormlogger.Default.LogMode(gormlogger.Silent)

	dialector, err := driver.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return errors.Wrap(errors.ErrCodeDBConnection, "failed to open database", err)
	}

	db, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return errors.Wrap(errors.ErrCodeDBConnection, "failed to connect to database", err)
	}

	// Connection pool, WAL mode. Foreign keys stay off during migration so
	// pre-existing orphan records cannot fail the migration.
	if err := driver.PreMigrationConfig(db); err != nil {
		logger.Error("Failed to apply pre-migration config", zap.Error(err))
		return errors.Wrap(errors.ErrCodeDBConnection, "failed to apply pre-migration config", err)
	}

	if err := migrate(); err != nil {
		return err
	}

	if err := driver.PostMigrationConfig(db); err != nil {
		logger.Error("Failed to apply post-migration config", zap.Error(err))
		return errors.Wrap(errors.ErrCodeDBConnection, "failed to apply post-migration config", err)
	}

	logger.Info("Database initialized successfully", zap.String("driver", driver.Name()))
	return nil
}

// migrate runs auto-migration for all models
func migrate() error {
	logger.Info("Running database migrations")

	models := model.AllModels()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run database migrations", zap.Error(err))
		return errors.Wrap(errors.ErrCodeDBMigration, "failed to run database migrations", err)
	}

	logger.Info("Database migrations completed", zap.Int("models", len(models)))
	return nil
}

// Get returns the database connection.
// Panics if the database hasn't been initialized.
func Get() *gorm.DB {
	if db == nil {
		panic("database not initialized, call database.Init() first")
	}
	return db
}

// ResetForTesting resets the package state so tests can re-initialize
// with a fresh database file. Never call this in production code.
func ResetForTesting() {
	db = nil
	once = sync.Once{}
}

// Close closes the database connection
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

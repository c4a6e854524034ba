// Package store provides data access layer interfaces and implementations.
// This package abstracts database operations to improve maintainability
// and decouple business logic from specific database implementations.
package store

import "gorm.io/gorm"

// Store aggregates all data store interfaces.
// It provides a single point of access for all database operations.
type Store interface {
	Resume() ResumeStore
	Export() ExportStore
	Credit() CreditStore

	// DB returns the underlying database connection for advanced operations.
	// Use sparingly - prefer using specific store methods.
	DB() *gorm.DB

	// Transaction executes operations within a database transaction.
	Transaction(fn func(Store) error) error
}

// gormStore implements Store interface using GORM.
type gormStore struct {
	db          *gorm.DB
	resumeStore ResumeStore
	exportStore ExportStore
	creditStore CreditStore
}

// NewStore creates a new Store instance with GORM backend.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:          db,
		resumeStore: newResumeStore(db),
		exportStore: newExportStore(db),
		creditStore: newCreditStore(db),
	}
}

func (s *gormStore) Resume() ResumeStore {
	return s.resumeStore
}

func (s *gormStore) Export() ExportStore {
	return s.exportStore
}

func (s *gormStore) Credit() CreditStore {
	return s.creditStore
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txStore := &gormStore{
			db:          tx,
			resumeStore: newResumeStore(tx),
			exportStore: newExportStore(tx),
			creditStore: newCreditStore(tx),
		}
		return fn(txStore)
	})
}

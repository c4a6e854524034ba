// Package store provides test utilities for database testing.
package store

import (
	"os"
	"testing"

	"github.com/resumeforge/resumeforge/internal/database"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/pkg/idgen"
)

// SetupTestDB creates a temporary SQLite database for testing.
// It returns a Store instance and a cleanup function.
// The cleanup function should be called with defer in tests.
func SetupTestDB(t *testing.T) (Store, func()) {
	// Reset database state to allow re-initialization
	database.ResetForTesting()

	tmpFile, err := os.CreateTemp("", "test_*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := database.InitWithPath(tmpPath); err != nil {
		os.Remove(tmpPath)
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	store := NewStore(database.Get())

	cleanup := func() {
		database.Close()
		database.ResetForTesting()
		os.Remove(tmpPath)
	}

	return store, cleanup
}

// CreateTestResume creates a test Resume with default values.
// Fields can be overridden by passing a function that modifies the resume.
func CreateTestResume(t *testing.T, store Store, overrides ...func(*model.Resume)) *model.Resume {
	resume := &model.Resume{
		ID:         idgen.NewResumeID(),
		OwnerID:    "owner-" + t.Name(),
		Title:      "Test Resume",
		TemplateID: "classic",
		Content: model.JSONMap{
			"meta": map[string]interface{}{"name": "Test User"},
		},
	}

	for _, override := range overrides {
		override(resume)
	}

	if err := store.Resume().Create(resume); err != nil {
		t.Fatalf("Failed to create test resume: %v", err)
	}

	return resume
}

// CreateTestExportRecord creates a test ExportRecord with default values.
func CreateTestExportRecord(t *testing.T, store Store, resumeID string, overrides ...func(*model.ExportRecord)) *model.ExportRecord {
	record := &model.ExportRecord{
		ID:         idgen.NewExportID(),
		OwnerID:    "owner-" + t.Name(),
		ResumeID:   resumeID,
		Title:      "Test Resume",
		TemplateID: "classic",
		Format:     "pdf",
		Filename:   "testresume.pdf",
	}

	for _, override := range overrides {
		override(record)
	}

	if err := store.Export().Create(record); err != nil {
		t.Fatalf("Failed to create test export record: %v", err)
	}

	return record
}

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/pkg/idgen"
)

func TestExportStore_CreateAndGet(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	resume := CreateTestResume(t, store)
	record := CreateTestExportRecord(t, store, resume.ID, func(r *model.ExportRecord) {
		r.Watermarked = true
		r.Overflow = true
	})

	got, err := store.Export().GetByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ID, got.ResumeID)
	assert.True(t, got.Watermarked)
	assert.True(t, got.Overflow)
}

func TestExportStore_ListByResume(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	resume := CreateTestResume(t, store)
	other := CreateTestResume(t, store, func(r *model.Resume) {
		r.ID = idgen.NewResumeID()
	})

	CreateTestExportRecord(t, store, resume.ID, func(r *model.ExportRecord) { r.ID = idgen.NewExportID() })
	CreateTestExportRecord(t, store, resume.ID, func(r *model.ExportRecord) { r.ID = idgen.NewExportID() })
	CreateTestExportRecord(t, store, other.ID, func(r *model.ExportRecord) { r.ID = idgen.NewExportID() })

	records, err := store.Export().ListByResume(resume.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestExportStore_DeleteOlderThan(t *testing.T) {
	store, cleanup := SetupTestDB(t)
	defer cleanup()

	resume := CreateTestResume(t, store)
	record := CreateTestExportRecord(t, store, resume.ID)

	// Cutoff in the past deletes nothing
	deleted, err := store.Export().DeleteOlderThan(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	// Cutoff in the future removes the record
	deleted, err = store.Export().DeleteOlderThan(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.Export().GetByID(record.ID)
	assert.Error(t, err)
}

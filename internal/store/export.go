package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/resumeforge/resumeforge/internal/model"
)

// ExportStore defines operations for ExportRecord models.
// RecordExport is the persistence collaborator of the export pipeline:
// callers treat a nil-record, nil-error return as a silent failure that
// must never be surfaced after the artifact has been delivered.
type ExportStore interface {
	Create(record *model.ExportRecord) error
	GetByID(id string) (*model.ExportRecord, error)
	ListByOwner(ownerID string, page, pageSize int) ([]model.ExportRecord, int64, error)
	ListByResume(resumeID string) ([]model.ExportRecord, error)
	CountAll() (int64, error)

	// DeleteOlderThan removes export records created before the cutoff.
	// Returns the number of deleted rows.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// exportStore implements ExportStore using GORM.
type exportStore struct {
	db *gorm.DB
}

func newExportStore(db *gorm.DB) ExportStore {
	return &exportStore{db: db}
}

func (s *exportStore) Create(record *model.ExportRecord) error {
	return s.db.Create(record).Error
}

func (s *exportStore) GetByID(id string) (*model.ExportRecord, error) {
	var record model.ExportRecord
	err := s.db.First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *exportStore) ListByOwner(ownerID string, page, pageSize int) ([]model.ExportRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.Model(&model.ExportRecord{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.ExportRecord
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *exportStore) ListByResume(resumeID string) ([]model.ExportRecord, error) {
	var records []model.ExportRecord
	err := s.db.Where("resume_id = ?", resumeID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (s *exportStore) CountAll() (int64, error) {
	var count int64
	err := s.db.Model(&model.ExportRecord{}).Count(&count).Error
	return count, err
}

func (s *exportStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := s.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.ExportRecord{})
	return res.RowsAffected, res.Error
}

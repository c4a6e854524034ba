package store

import (
	"gorm.io/gorm"

	"github.com/resumeforge/resumeforge/internal/model"
)

// ResumeStore defines operations for Resume models.
type ResumeStore interface {
	Create(resume *model.Resume) error
	GetByID(id string) (*model.Resume, error)
	GetByIDAndOwner(id, ownerID string) (*model.Resume, error)
	Update(resume *model.Resume) error
	Save(resume *model.Resume) error
	Delete(id string) error

	ListByOwner(ownerID string, page, pageSize int) ([]model.Resume, int64, error)
	CountAll() (int64, error)
}

// resumeStore implements ResumeStore using GORM.
type resumeStore struct {
	db *gorm.DB
}

func newResumeStore(db *gorm.DB) ResumeStore {
	return &resumeStore{db: db}
}

func (s *resumeStore) Create(resume *model.Resume) error {
	return s.db.Create(resume).Error
}

func (s *resumeStore) GetByID(id string) (*model.Resume, error) {
	var resume model.Resume
	err := s.db.First(&resume, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func (s *resumeStore) GetByIDAndOwner(id, ownerID string) (*model.Resume, error) {
	var resume model.Resume
	err := s.db.First(&resume, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func (s *resumeStore) Update(resume *model.Resume) error {
	return s.db.Model(resume).Updates(resume).Error
}

func (s *resumeStore) Save(resume *model.Resume) error {
	return s.db.Save(resume).Error
}

func (s *resumeStore) Delete(id string) error {
	return s.db.Delete(&model.Resume{}, "id = ?", id).Error
}

func (s *resumeStore) ListByOwner(ownerID string, page, pageSize int) ([]model.Resume, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.Model(&model.Resume{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var resumes []model.Resume
	err := query.Order("updated_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&resumes).Error
	if err != nil {
		return nil, 0, err
	}

	return resumes, total, nil
}

func (s *resumeStore) CountAll() (int64, error) {
	var count int64
	err := s.db.Model(&model.Resume{}).Count(&count).Error
	return count, err
}

// Package handler provides mock store implementations for testing.
package handler

import (
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/store"
)

// MockResumeStore provides an in-memory implementation of ResumeStore for testing.
type MockResumeStore struct {
	mu      sync.RWMutex
	resumes map[string]*model.Resume

	// CreateErr forces Create to fail when set
	CreateErr error
}

// NewMockResumeStore creates a new mock resume store.
func NewMockResumeStore() *MockResumeStore {
	return &MockResumeStore{resumes: make(map[string]*model.Resume)}
}

func (m *MockResumeStore) Create(resume *model.Resume) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	resume.CreatedAt = time.Now()
	m.resumes[resume.ID] = resume
	return nil
}

func (m *MockResumeStore) GetByID(id string) (*model.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resume, ok := m.resumes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return resume, nil
}

func (m *MockResumeStore) GetByIDAndOwner(id, ownerID string) (*model.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resume, ok := m.resumes[id]
	if !ok || resume.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return resume, nil
}

func (m *MockResumeStore) Update(resume *model.Resume) error {
	return m.Save(resume)
}

func (m *MockResumeStore) Save(resume *model.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes[resume.ID] = resume
	return nil
}

func (m *MockResumeStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.resumes, id)
	return nil
}

func (m *MockResumeStore) ListByOwner(ownerID string, page, pageSize int) ([]model.Resume, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var owned []model.Resume
	for _, r := range m.resumes {
		if r.OwnerID == ownerID {
			owned = append(owned, *r)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	total := int64(len(owned))
	start := (page - 1) * pageSize
	if start >= len(owned) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], total, nil
}

func (m *MockResumeStore) CountAll() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.resumes)), nil
}

// MockExportStore provides an in-memory implementation of ExportStore for testing.
type MockExportStore struct {
	mu      sync.RWMutex
	records map[string]*model.ExportRecord
}

// NewMockExportStore creates a new mock export store.
func NewMockExportStore() *MockExportStore {
	return &MockExportStore{records: make(map[string]*model.ExportRecord)}
}

func (m *MockExportStore) Create(record *model.ExportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.CreatedAt = time.Now()
	m.records[record.ID] = record
	return nil
}

func (m *MockExportStore) GetByID(id string) (*model.ExportRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (m *MockExportStore) ListByOwner(ownerID string, page, pageSize int) ([]model.ExportRecord, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var owned []model.ExportRecord
	for _, r := range m.records {
		if r.OwnerID == ownerID {
			owned = append(owned, *r)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	total := int64(len(owned))
	start := (page - 1) * pageSize
	if start >= len(owned) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], total, nil
}

func (m *MockExportStore) ListByResume(resumeID string) ([]model.ExportRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ExportRecord
	for _, r := range m.records {
		if r.ResumeID == resumeID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MockExportStore) CountAll() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

func (m *MockExportStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, r := range m.records {
		if r.CreatedAt.Before(cutoff) {
			delete(m.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// MockCreditStore provides an in-memory implementation of CreditStore for testing.
type MockCreditStore struct {
	mu       sync.Mutex
	balances map[string]int

	// GrantErr forces Grant to fail when set
	GrantErr error
}

// NewMockCreditStore creates a new mock credit store.
func NewMockCreditStore() *MockCreditStore {
	return &MockCreditStore{balances: make(map[string]int)}
}

func (m *MockCreditStore) HasCredit(ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[ownerID] > 0, nil
}

func (m *MockCreditStore) ConsumeCredit(ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[ownerID] <= 0 {
		return false, nil
	}
	m.balances[ownerID]--
	return true, nil
}

func (m *MockCreditStore) Grant(ownerID string, amount int) error {
	if m.GrantErr != nil {
		return m.GrantErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[ownerID] += amount
	return nil
}

func (m *MockCreditStore) Balance(ownerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[ownerID], nil
}

// MockStore aggregates the mock sub-stores as a store.Store.
type MockStore struct {
	ResumeStore *MockResumeStore
	ExportStore *MockExportStore
	CreditStore *MockCreditStore
}

// NewMockStore creates a fully wired mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		ResumeStore: NewMockResumeStore(),
		ExportStore: NewMockExportStore(),
		CreditStore: NewMockCreditStore(),
	}
}

func (m *MockStore) Resume() store.ResumeStore { return m.ResumeStore }
func (m *MockStore) Export() store.ExportStore { return m.ExportStore }
func (m *MockStore) Credit() store.CreditStore { return m.CreditStore }
func (m *MockStore) DB() *gorm.DB              { return nil }

func (m *MockStore) Transaction(fn func(store.Store) error) error {
	return fn(m)
}

package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	r := NewReport()
	r.AddFileResult(FileCheckResult{Path: "a.yaml", Exists: true})
	r.AddFileResult(FileCheckResult{Path: "b.yaml", Exists: true, Created: true})
	r.AddFileResult(FileCheckResult{Path: "c.yaml", Exists: false})
	r.AddValidationResult(ValidationResult{Path: "a.yaml", Valid: true})
	r.AddValidationResult(ValidationResult{Path: "chrome", Valid: true, Warnings: []string{"not found"}})
	r.AddValidationResult(ValidationResult{Path: "b.yaml", Valid: false, Error: errors.New("bad yaml")})
	r.AddValidationResult(ValidationResult{Path: "templates", Valid: true, TemplateCount: 2})

	s := r.Summary()

	assert.Equal(t, 1, s.FilesCreated)
	assert.Equal(t, 1, s.FilesMissing)
	assert.Equal(t, 4, s.Probes)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Warnings)
	assert.Equal(t, 2, s.Templates)
	assert.False(t, s.Ready())
}

func TestSummaryAllClean(t *testing.T) {
	r := NewReport()
	r.AddFileResult(FileCheckResult{Path: "a.yaml", Exists: true})
	r.AddValidationResult(ValidationResult{Path: "a.yaml", Valid: true})

	s := r.Summary()
	assert.Equal(t, 0, s.Failed)
	assert.Equal(t, 0, s.Warnings)
	assert.Equal(t, 0, s.FilesMissing)
	assert.True(t, s.Ready())
}

func TestSummaryWarningsDoNotBlock(t *testing.T) {
	r := NewReport()
	r.AddFileResult(FileCheckResult{Path: "a.yaml", Exists: true})
	r.AddValidationResult(ValidationResult{Path: "chrome", Valid: true, Warnings: []string{"not found"}})

	s := r.Summary()
	assert.Equal(t, 1, s.Warnings)
	assert.True(t, s.Ready())
}

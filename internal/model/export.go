// Package model defines the data models for the application.
package model

import (
	"time"

	"gorm.io/gorm"
)

// ExportRecord persists one delivered export (the "downloaded resume" ledger).
// Records are written after the artifact has been handed to the caller; a
// failed write here is logged, never surfaced, because the user already has
// their file.
type ExportRecord struct {
	ID        string         `gorm:"primarykey;size:20" json:"id"` // xid
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID  string `gorm:"size:64;not null;index" json:"owner_id"`
	ResumeID string `gorm:"size:20;not null;index" json:"resume_id"`

	Title      string `gorm:"size:512;not null" json:"title"`
	TemplateID string `gorm:"size:100;not null" json:"template_id"`
	Format     string `gorm:"size:10;not null" json:"format"` // pdf, png, jpeg
	Filename   string `gorm:"size:512;not null" json:"filename"`

	// Watermarked reports whether the artifact carries the free-tier watermark
	Watermarked bool `gorm:"not null;default:false" json:"watermarked"`

	// Overflow reports whether the content exceeded the single-page budget
	// at export time (advisory measurement, content is never truncated)
	Overflow bool `gorm:"not null;default:false" json:"overflow"`

	// Output size in bytes
	SizeBytes int64 `json:"size_bytes,omitempty"`

	// Duration of the whole export operation in milliseconds
	Duration int64 `json:"duration,omitempty"`
}

// CreditAccount tracks watermark-free export entitlements per owner.
// Balance is only ever changed through conditional updates so concurrent
// consumption cannot double-spend a credit.
type CreditAccount struct {
	OwnerID   string    `gorm:"primarykey;size:64" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Balance int `gorm:"not null;default:0" json:"balance"`
}

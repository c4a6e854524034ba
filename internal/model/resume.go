// Package model defines the data models for the application.
package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Resume represents a stored resume document.
// Content holds the structured resume data as JSON; the renderer turns it
// into the HTML preview the export pipeline measures and rasterizes.
type Resume struct {
	ID        string         `gorm:"primarykey;size:20" json:"id"` // xid
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Owner identification. Auth is an external collaborator; only an
	// opaque owner key is stored here.
	OwnerID string `gorm:"size:64;not null;index" json:"owner_id"`

	Title      string `gorm:"size:512;not null" json:"title"`
	TemplateID string `gorm:"size:100;not null;default:classic" json:"template_id"`

	// Structured resume content (JSON-encoded Content document)
	Content JSONMap `gorm:"type:json" json:"content,omitempty"`
}

// Content is the structured body of a resume as the renderer consumes it.
type Content struct {
	Meta         Meta         `json:"meta"`
	Summary      string       `json:"summary,omitempty"`
	Experience   []Role       `json:"experience,omitempty"`
	Education    []School     `json:"education,omitempty"`
	Projects     []Project    `json:"projects,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
	Publications []string     `json:"publications,omitempty"`
	Extras       string       `json:"extras,omitempty"`
}

// Meta holds the resume header block.
type Meta struct {
	Name     string            `json:"name"`
	Headline string            `json:"headline,omitempty"`
	Contact  map[string]string `json:"contact,omitempty"`
}

// Role is one experience entry.
type Role struct {
	Company string   `json:"company"`
	Title   string   `json:"title"`
	Period  string   `json:"period,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// School is one education entry.
type School struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Period      string `json:"period,omitempty"`
}

// Project is one project entry.
type Project struct {
	Title       string   `json:"title"`
	URL         string   `json:"url,omitempty"`
	Stack       string   `json:"stack,omitempty"`
	Description string   `json:"description,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
}

// ParseContent decodes the stored JSON content into a Content document.
func (r *Resume) ParseContent() (*Content, error) {
	data, err := json.Marshal(r.Content)
	if err != nil {
		return nil, err
	}
	var c Content
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetContent encodes a Content document into the stored JSON map.
func (r *Resume) SetContent(c *Content) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.Content = m
	return nil
}

// Package idgen provides ID generation utilities for the application.
// It encapsulates the ID generation implementation, making it easy to change
// the underlying ID generation strategy in the future.
package idgen

import (
	"github.com/rs/xid"
)

// NewID generates a new globally unique, sortable identifier.
// Returns a 20-character string using xid format.
// The generated ID is:
// - Globally unique
// - Sortable by creation time
// - URL-safe (base32 encoded)
// - 20 characters long
func NewID() string {
	return xid.New().String()
}

// NewResumeID generates a unique ID for Resume entities.
// Currently an alias for NewID, but can be customized in the future
// (e.g., adding a prefix like "res_" for better identification).
func NewResumeID() string {
	return NewID()
}

// NewExportID generates a unique ID for ExportRecord entities.
func NewExportID() string {
	return NewID()
}

// NewSnapshotToken generates a unique token for a style snapshot scope.
// Each export invocation owns exactly one token; the token namespaces the
// saved style state inside the page so overlapping scopes cannot collide.
func NewSnapshotToken() string {
	return NewID()
}

// NewRequestID generates a unique ID for request tracking.
func NewRequestID() string {
	return NewID()
}

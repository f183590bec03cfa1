// ABOUTME: Data types and sentinel errors shared by the tenant and system stores
// ABOUTME: Defines Page, Card, Tag, Tenant, User and the Table schema fragment

package store

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint rejects an insert
var ErrDuplicate = errors.New("already exists")

// ErrInvalidInput is returned when a required field is missing or malformed
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidReference is returned when a foreign key points at a missing row
var ErrInvalidReference = errors.New("invalid reference")

// Table is a schema fragment applied when a store is bootstrapped.
// DDL must be idempotent (CREATE ... IF NOT EXISTS).
type Table struct {
	Name string
	DDL  string
}

// Tenant is an isolated workspace registered in the system store.
// Slug always equals ID.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// User is a global identity. Name doubles as the tenant identifier.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified *time.Time
	Image         string
	PasswordHash  string // bcrypt hash
	CreatedAt     time.Time
}

// Page is a node in a tenant's page tree. Content is an opaque serialized
// editor document and is never interpreted by the store.
type Page struct {
	ID        string
	Title     string
	Slug      string // derived from Title, not unique
	Content   string
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Card is a typed embeddable block owned by a plugin.
type Card struct {
	ID        string
	PageID    *string
	Type      string // namespaced, e.g. "chess:game"
	Plugin    string
	Content   json.RawMessage
	Metadata  json.RawMessage
	CreatedAt time.Time
}

// Tag is a named label. Tags are not yet attached to pages.
type Tag struct {
	ID    string
	Name  string
	Color string
}

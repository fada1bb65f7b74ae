// ABOUTME: Record store contract shared by every backend
// ABOUTME: Defines Record, the Store interface, and the store error taxonomy
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/dealdesk/schema"
)

var (
	// ErrNotFound is returned when no record has the requested Id.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable wraps transport and storage failures.
	ErrUnavailable = errors.New("store unavailable")

	ErrInvalidRecord = errors.New("invalid record")
)

// NotFoundError names the collection and Id that were missing.
type NotFoundError struct {
	Collection string
	ID         int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Collection, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity schema.Entity, id int64) error {
	return &NotFoundError{Collection: entity.Name, ID: id}
}

// Record is one stored entity: an immutable Id plus opaque field keys.
type Record struct {
	ID     int64          `json:"Id"`
	Fields map[string]any `json:"fields"`
}

// Clone returns a copy whose field map can be mutated independently.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{ID: r.ID, Fields: cloneFields(r.Fields)}
}

// String returns a field's value when it is a string.
func (r *Record) String(key string) string {
	s, _ := r.Fields[key].(string)
	return s
}

// Store is uniform async access to one named collection.
type Store interface {
	// Entity returns the schema of the collection this store serves.
	Entity() schema.Entity

	GetAll(ctx context.Context) ([]*Record, error)
	GetByID(ctx context.Context, id int64) (*Record, error)

	// Create assigns a new Id (highest Id ever issued + 1).
	Create(ctx context.Context, fields map[string]any) (*Record, error)

	// Update merges fields onto the stored record, preserving its Id.
	Update(ctx context.Context, id int64, fields map[string]any) (*Record, error)

	Delete(ctx context.Context, id int64) (bool, error)

	// Search returns records where any of the entity's search fields
	// contains query, case-insensitively.
	Search(ctx context.Context, query string) ([]*Record, error)
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// MergeFields overlays updates onto a copy of existing. The Id key is never
// copied from updates.
func MergeFields(existing, updates map[string]any) map[string]any {
	merged := cloneFields(existing)
	for k, v := range updates {
		if k == schema.IDKey {
			continue
		}
		merged[k] = v
	}
	return merged
}

// Matches is the in-process search predicate: true when any of the
// entity's search fields contains query, ignoring case.
func Matches(entity schema.Entity, fields map[string]any, query string) bool {
	q := strings.ToLower(query)
	for _, key := range entity.SearchFields {
		s, ok := fields[key].(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func checkFields(fields map[string]any) error {
	if fields == nil {
		return fmt.Errorf("%w: nil field map", ErrInvalidRecord)
	}
	return nil
}

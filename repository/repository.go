// ABOUTME: Generic typed repository over a record store
// ABOUTME: Validates, stamps and converts entities before any store call

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
)

// stamper is implemented by entities that record creation time.
type stamper interface {
	StampCreated(now time.Time)
}

// Repository provides typed CRUD for one entity type T over a db.Store.
type Repository[T any] struct {
	store db.Store
	now   func() time.Time
}

// New creates a repository over store.
func New[T any](store db.Store) *Repository[T] {
	return &Repository[T]{store: store, now: time.Now}
}

// Store returns the underlying record store.
func (r *Repository[T]) Store() db.Store {
	return r.store
}

// GetAll returns every entity in the store's order.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	records, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(records)
}

// GetByID returns one entity or an error matching db.ErrNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	rec, err := r.store.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	return r.decode(rec)
}

// Create applies creation stamps and schema defaults, validates the result,
// and stores it. The returned entity carries its assigned Id.
func (r *Repository[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if s, ok := any(&entity).(stamper); ok {
		s.StampCreated(r.now())
	}

	fields, err := models.ToFields(entity)
	if err != nil {
		return zero, err
	}
	r.store.Entity().ApplyDefaults(fields)

	var withDefaults T
	if err := models.FromFields(0, fields, &withDefaults); err != nil {
		return zero, fmt.Errorf("%w: %v", db.ErrInvalidRecord, err)
	}
	if err := r.validate(fields, withDefaults); err != nil {
		return zero, err
	}

	rec, err := r.store.Create(ctx, fields)
	if err != nil {
		return zero, err
	}
	return r.decode(rec)
}

// Update merges patch onto the stored entity. The merged result is
// validated before the store is touched.
func (r *Repository[T]) Update(ctx context.Context, id int64, patch map[string]any) (T, error) {
	var zero T
	current, err := r.store.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}

	merged, err := r.decode(&db.Record{ID: id, Fields: db.MergeFields(current.Fields, patch)})
	if err != nil {
		return zero, fmt.Errorf("%w: %v", db.ErrInvalidRecord, err)
	}
	if err := models.Validate(merged); err != nil {
		return zero, err
	}

	rec, err := r.store.Update(ctx, id, patch)
	if err != nil {
		return zero, err
	}
	return r.decode(rec)
}

// Save replaces every declared field of an existing entity with entity's
// values. Fields entity leaves empty are cleared.
func (r *Repository[T]) Save(ctx context.Context, id int64, entity T) (T, error) {
	var zero T
	fields, err := models.ToFields(entity)
	if err != nil {
		return zero, err
	}
	if err := r.validate(fields, entity); err != nil {
		return zero, err
	}

	rec, err := r.store.Update(ctx, id, r.store.Entity().Complete(fields))
	if err != nil {
		return zero, err
	}
	return r.decode(rec)
}

// Delete removes the entity with id.
func (r *Repository[T]) Delete(ctx context.Context, id int64) (bool, error) {
	return r.store.Delete(ctx, id)
}

// Search runs the store's case-insensitive search over the entity's search fields.
func (r *Repository[T]) Search(ctx context.Context, query string) ([]T, error) {
	records, err := r.store.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(records)
}

// Where returns the entities for which keep reports true.
func (r *Repository[T]) Where(ctx context.Context, keep func(T) bool) ([]T, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]T, 0, len(all))
	for _, e := range all {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// validate reports schema-required fields and the entity's own rules in one
// error listing every violated field.
func (r *Repository[T]) validate(fields map[string]any, entity T) error {
	violations := make(map[string]string)
	for _, key := range r.store.Entity().Missing(fields) {
		violations[key] = "is required"
	}

	err := models.Validate(entity)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		for key, msg := range verr.Violations {
			if _, seen := violations[key]; !seen {
				violations[key] = msg
			}
		}
	case err != nil:
		return err
	}

	if len(violations) == 0 {
		return nil
	}
	return &models.ValidationError{Violations: violations}
}

func (r *Repository[T]) decode(rec *db.Record) (T, error) {
	var entity T
	if err := models.FromFields(rec.ID, rec.Fields, &entity); err != nil {
		return entity, err
	}
	return entity, nil
}

func (r *Repository[T]) decodeAll(records []*db.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		e, err := r.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

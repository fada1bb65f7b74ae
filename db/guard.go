// ABOUTME: Uniform wrapper applied around every record store operation
// ABOUTME: Logs failures, records metrics, and maps transport errors to ErrUnavailable
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/schema"
)

// Guarded decorates a Store. Every call returns either a value or an
// error; failures are never coerced into empty results.
type Guarded struct {
	next   Store
	logger *log.Logger
}

// Guard wraps next. A nil logger uses log.Default().
func Guard(next Store, logger *log.Logger) *Guarded {
	if logger == nil {
		logger = log.Default()
	}
	return &Guarded{next: next, logger: logger}
}

// Unwrap returns the decorated store.
func (g *Guarded) Unwrap() Store {
	return g.next
}

func (g *Guarded) Entity() schema.Entity {
	return g.next.Entity()
}

func (g *Guarded) GetAll(ctx context.Context) ([]*Record, error) {
	start := time.Now()
	records, err := g.next.GetAll(ctx)
	if err = g.observe("getAll", 0, start, err); err != nil {
		return nil, err
	}
	return records, nil
}

func (g *Guarded) GetByID(ctx context.Context, id int64) (*Record, error) {
	start := time.Now()
	rec, err := g.next.GetByID(ctx, id)
	if err = g.observe("getById", id, start, err); err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *Guarded) Create(ctx context.Context, fields map[string]any) (*Record, error) {
	start := time.Now()
	rec, err := g.next.Create(ctx, fields)
	if err = g.observe("create", 0, start, err); err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *Guarded) Update(ctx context.Context, id int64, fields map[string]any) (*Record, error) {
	start := time.Now()
	rec, err := g.next.Update(ctx, id, fields)
	if err = g.observe("update", id, start, err); err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *Guarded) Delete(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	ok, err := g.next.Delete(ctx, id)
	if err = g.observe("delete", id, start, err); err != nil {
		return false, err
	}
	return ok, nil
}

func (g *Guarded) Search(ctx context.Context, query string) ([]*Record, error) {
	start := time.Now()
	records, err := g.next.Search(ctx, query)
	if err = g.observe("search", 0, start, err); err != nil {
		return nil, err
	}
	return records, nil
}

// observe records the call and returns the error the caller should see.
func (g *Guarded) observe(op string, id int64, start time.Time, err error) error {
	collection := g.next.Entity().Name
	storeLatency.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())

	outcome, mapped := classify(err)
	storeOperations.WithLabelValues(collection, op, outcome).Inc()

	switch outcome {
	case outcomeOK:
	case outcomeUnavailable:
		g.logger.Error("store operation failed", "collection", collection, "op", op, "id", id, "err", err)
	default:
		g.logger.Debug("store operation rejected", "collection", collection, "op", op, "id", id, "err", err)
	}
	return mapped
}

func classify(err error) (string, error) {
	switch {
	case err == nil:
		return outcomeOK, nil
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound, err
	case errors.Is(err, ErrInvalidRecord):
		return outcomeInvalid, err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled, err
	case errors.Is(err, ErrUnavailable):
		return outcomeUnavailable, err
	default:
		return outcomeUnavailable, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

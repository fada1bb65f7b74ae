// ABOUTME: In-memory record store used for mock mode and tests
// ABOUTME: Owns an injected collection and can simulate network latency
package db

import (
	"context"
	"sync"
	"time"

	"github.com/harperreed/dealdesk/schema"
)

// MemoryStore keeps one collection in a slice, in storage order.
type MemoryStore struct {
	entity  schema.Entity
	latency time.Duration

	mu      sync.RWMutex
	records []*Record
	lastID  int64
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithLatency delays every operation by d, honouring context cancellation.
func WithLatency(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.latency = d
	}
}

// NewMemoryStore creates a store owning a copy of seed.
func NewMemoryStore(entity schema.Entity, seed []*Record, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{entity: entity}
	for _, r := range seed {
		if r == nil {
			continue
		}
		s.records = append(s.records, r.Clone())
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Entity() schema.Entity {
	return s.entity
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *MemoryStore) GetAll(ctx context.Context) ([]*Record, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*Record, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i].Clone(), nil
	}
	return nil, notFound(s.entity, id)
}

func (s *MemoryStore) Create(ctx context.Context, fields map[string]any) (*Record, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	rec := &Record{ID: s.lastID, Fields: MergeFields(nil, fields)}
	s.records = append(s.records, rec)
	return rec.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, fields map[string]any) (*Record, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, notFound(s.entity, id)
	}
	s.records[i] = &Record{ID: id, Fields: MergeFields(s.records[i].Fields, fields)}
	return s.records[i].Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, notFound(s.entity, id)
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return true, nil
}

func (s *MemoryStore) Search(ctx context.Context, query string) ([]*Record, error) {
	all, err := s.GetAll(ctx)
	if err != nil || query == "" {
		return all, err
	}

	matched := make([]*Record, 0, len(all))
	for _, r := range all {
		if Matches(s.entity, r.Fields, query) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *MemoryStore) indexOf(id int64) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

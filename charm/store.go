// ABOUTME: Record store over Charm KV for the hosted backend mode
// ABOUTME: Stores each record under <table>:<id> using the backend's column naming

package charm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/schema"
)

// KVStore implements db.Store for one table. GetAll and Search return
// records in descending Id order.
type KVStore struct {
	client *Client
	entity schema.Entity
	mu     sync.Mutex
}

func NewKVStore(client *Client, entity schema.Entity) *KVStore {
	return &KVStore{client: client, entity: entity}
}

func (s *KVStore) Entity() schema.Entity {
	return s.entity
}

func (s *KVStore) prefix() string {
	return s.entity.Table + ":"
}

func (s *KVStore) recordKey(id int64) []byte {
	return []byte(s.prefix() + strconv.FormatInt(id, 10))
}

func (s *KVStore) sequenceKey() []byte {
	return []byte("seq:" + s.entity.Table)
}

func (s *KVStore) GetAll(ctx context.Context) ([]*db.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.refresh()

	keys, err := s.client.KeysWithPrefix([]byte(s.prefix()))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s keys: %w", s.entity.Name, err)
	}

	records := make([]*db.Record, 0, len(keys))
	for _, key := range keys {
		id, err := strconv.ParseInt(strings.TrimPrefix(string(key), s.prefix()), 10, 64)
		if err != nil {
			continue
		}
		rec, err := s.load(id)
		if errors.Is(err, db.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})
	return records, nil
}

func (s *KVStore) GetByID(ctx context.Context, id int64) (*db.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.refresh()
	return s.load(id)
}

// refresh pulls remote changes when local data is stale. A failed sync
// still serves the local copy.
func (s *KVStore) refresh() {
	_ = s.client.SyncIfStale()
}

func (s *KVStore) Create(ctx context.Context, fields map[string]any) (*db.Record, error) {
	if fields == nil {
		return nil, fmt.Errorf("%w: nil field map", db.ErrInvalidRecord)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.nextID()
	if err != nil {
		return nil, err
	}

	rec := &db.Record{ID: id, Fields: db.MergeFields(nil, fields)}
	if err := s.save(rec); err != nil {
		return nil, err
	}
	if err := s.client.Set(s.sequenceKey(), []byte(strconv.FormatInt(id, 10))); err != nil {
		return nil, fmt.Errorf("failed to advance %s sequence: %w", s.entity.Name, err)
	}
	return rec, nil
}

func (s *KVStore) Update(ctx context.Context, id int64, fields map[string]any) (*db.Record, error) {
	if fields == nil {
		return nil, fmt.Errorf("%w: nil field map", db.ErrInvalidRecord)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(id)
	if err != nil {
		return nil, err
	}

	rec := &db.Record{ID: id, Fields: db.MergeFields(existing.Fields, fields)}
	if err := s.save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *KVStore) Delete(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(id); err != nil {
		return false, err
	}
	if err := s.client.Delete(s.recordKey(id)); err != nil {
		return false, fmt.Errorf("failed to delete %s %d: %w", s.entity.Name, id, err)
	}
	return true, nil
}

func (s *KVStore) Search(ctx context.Context, query string) ([]*db.Record, error) {
	all, err := s.GetAll(ctx)
	if err != nil || query == "" {
		return all, err
	}

	matched := make([]*db.Record, 0, len(all))
	for _, rec := range all {
		if db.Matches(s.entity, rec.Fields, query) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

// nextID returns one past the highest Id this table has ever issued.
func (s *KVStore) nextID() (int64, error) {
	raw, err := s.client.Get(s.sequenceKey())
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s sequence: %w", s.entity.Name, err)
	}

	last, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt %s sequence %q: %w", s.entity.Name, raw, err)
	}
	return last + 1, nil
}

func (s *KVStore) load(id int64) (*db.Record, error) {
	raw, err := s.client.Get(s.recordKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, &db.NotFoundError{Collection: s.entity.Name, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", s.entity.Name, id, err)
	}

	row := make(map[string]any)
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("failed to decode %s %d: %w", s.entity.Name, id, err)
	}

	fields := s.entity.Decode(row)
	delete(fields, schema.IDKey)
	return &db.Record{ID: id, Fields: fields}, nil
}

func (s *KVStore) save(rec *db.Record) error {
	row, err := s.entity.Encode(rec.Fields)
	if err != nil {
		return fmt.Errorf("%w: %v", db.ErrInvalidRecord, err)
	}
	row[schema.IDKey] = rec.ID

	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%w: %v", db.ErrInvalidRecord, err)
	}
	if err := s.client.Set(s.recordKey(rec.ID), data); err != nil {
		return fmt.Errorf("failed to save %s %d: %w", s.entity.Name, rec.ID, err)
	}
	return nil
}

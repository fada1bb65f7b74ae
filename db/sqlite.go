// ABOUTME: SQLite-backed record store for the local backend
// ABOUTME: Persists field maps as JSON rows and issues Ids from a per-collection sequence
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/dealdesk/schema"
)

// SQLiteStore serves one collection from the records table.
// GetAll and Search return records in descending Id order.
type SQLiteStore struct {
	db     *sql.DB
	entity schema.Entity
}

func NewSQLiteStore(db *sql.DB, entity schema.Entity) *SQLiteStore {
	return &SQLiteStore{db: db, entity: entity}
}

func (s *SQLiteStore) Entity() schema.Entity {
	return s.entity
}

func (s *SQLiteStore) collection() string {
	return s.entity.Table
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fields FROM records
		WHERE collection = ?
		ORDER BY id DESC
	`, s.collection())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.entity.Name, err)
	}
	return scanRecords(rows)
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*Record, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT fields FROM records WHERE collection = ? AND id = ?
	`, s.collection(), id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, notFound(s.entity, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", s.entity.Name, id, err)
	}
	return decodeRecord(id, raw)
}

func (s *SQLiteStore) Create(ctx context.Context, fields map[string]any) (*Record, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}
	rec := &Record{Fields: MergeFields(nil, fields)}
	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO sequences (collection, last_id) VALUES (?, 1)
		ON CONFLICT(collection) DO UPDATE SET last_id = last_id + 1
		RETURNING last_id
	`, s.collection()).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate %s id: %w", s.entity.Name, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (collection, id, fields, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, s.collection(), rec.ID, string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.entity.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", s.entity.Name, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, fields map[string]any) (*Record, error) {
	if err := checkFields(fields); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `
		SELECT fields FROM records WHERE collection = ? AND id = ?
	`, s.collection(), id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, notFound(s.entity, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", s.entity.Name, id, err)
	}

	existing, err := decodeRecord(id, raw)
	if err != nil {
		return nil, err
	}
	rec := &Record{ID: id, Fields: MergeFields(existing.Fields, fields)}
	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE records SET fields = ?, updated_at = CURRENT_TIMESTAMP
		WHERE collection = ? AND id = ?
	`, string(data), s.collection(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", s.entity.Name, id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", s.entity.Name, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM records WHERE collection = ? AND id = ?
	`, s.collection(), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s %d: %w", s.entity.Name, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete %s %d: %w", s.entity.Name, id, err)
	}
	if affected == 0 {
		return false, notFound(s.entity, id)
	}
	return true, nil
}

func (s *SQLiteStore) Search(ctx context.Context, query string) ([]*Record, error) {
	if query == "" {
		return s.GetAll(ctx)
	}
	if len(s.entity.SearchFields) == 0 {
		return []*Record{}, nil
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	clauses := make([]string, 0, len(s.entity.SearchFields))
	args := []any{s.collection()}
	for _, key := range s.entity.SearchFields {
		path := "$." + key
		clauses = append(clauses,
			`(json_type(fields, ?) = 'text' AND fold(json_extract(fields, ?)) LIKE ? ESCAPE '\')`)
		args = append(args, path, path, pattern)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fields FROM records
		WHERE collection = ? AND (`+strings.Join(clauses, " OR ")+`)
		ORDER BY id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.entity.Name, err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]*Record, error) {
	defer func() { _ = rows.Close() }()

	records := []*Record{}
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec, err := decodeRecord(id, raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func decodeRecord(id int64, raw string) (*Record, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode record %d: %w", id, err)
	}
	return &Record{ID: id, Fields: fields}, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

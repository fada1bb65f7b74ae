// ABOUTME: Embedded sample CRM data for mock mode and the seed command
// ABOUTME: Each collection's seed is a JSON array of records keyed by field key
package mockdata

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/schema"
)

//go:embed data/*.json
var files embed.FS

var seedFiles = map[string]string{
	schema.Contacts.Table:    "data/contacts.json",
	schema.Companies.Table:   "data/companies.json",
	schema.Deals.Table:       "data/deals.json",
	schema.Quotes.Table:      "data/quotes.json",
	schema.SalesOrders.Table: "data/sales_orders.json",
	schema.Activities.Table:  "data/activities.json",
}

// Records returns fresh copies of the seed records for entity, in file order.
func Records(entity schema.Entity) ([]*db.Record, error) {
	name, ok := seedFiles[entity.Table]
	if !ok {
		return nil, fmt.Errorf("no mock data for %s", entity.Name)
	}

	data, err := files.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	records := make([]*db.Record, 0, len(rows))
	for i, row := range rows {
		id, ok := row[schema.IDKey].(float64)
		if !ok || id < 1 {
			return nil, fmt.Errorf("%s: row %d has no valid Id", name, i)
		}
		delete(row, schema.IDKey)
		records = append(records, &db.Record{ID: int64(id), Fields: row})
	}
	return records, nil
}

// NewStore returns an in-memory store seeded with entity's sample data.
func NewStore(entity schema.Entity, latency time.Duration) (*db.MemoryStore, error) {
	seed, err := Records(entity)
	if err != nil {
		return nil, err
	}
	return db.NewMemoryStore(entity, seed, db.WithLatency(latency)), nil
}

// Load copies every seed collection into stores opened by open. Collections
// that already hold records are skipped so Ids stay aligned with references.
func Load(ctx context.Context, open func(schema.Entity) db.Store) (map[string]int, error) {
	loaded := make(map[string]int)
	for _, entity := range schema.All() {
		store := open(entity)

		existing, err := store.GetAll(ctx)
		if err != nil {
			return loaded, err
		}
		if len(existing) > 0 {
			continue
		}

		seed, err := Records(entity)
		if err != nil {
			return loaded, err
		}
		for _, rec := range seed {
			if _, err := store.Create(ctx, rec.Fields); err != nil {
				return loaded, fmt.Errorf("failed to seed %s %d: %w", entity.Name, rec.ID, err)
			}
		}
		loaded[entity.Name] = len(seed)
	}
	return loaded, nil
}

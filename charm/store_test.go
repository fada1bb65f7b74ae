// ABOUTME: Tests for the Charm KV record store
// ABOUTME: Runs against the BadgerDB test client with no server
package charm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStoreRoundTrip(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	ctx := context.Background()
	store := NewKVStore(client, schema.Deals)

	created, err := store.Create(ctx, map[string]any{"title": "Pilot", "stage": "lead", "value": 100.0})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Pilot", "stage": "lead", "value": 100.0}, got.Fields)

	_, err = store.Update(ctx, created.ID, map[string]any{"stage": "closed-won"})
	require.NoError(t, err)
	got, err = store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed-won", got.String("stage"))
	assert.Equal(t, "Pilot", got.String("title"))

	ok, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.GetByID(ctx, created.ID)
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestKVStoreUsesBackendColumns(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	store := NewKVStore(client, schema.Quotes)
	_, err := store.Create(context.Background(), map[string]any{
		"name":           "Q-1",
		"billingAddress": map[string]any{"city": "Springfield"},
	})
	require.NoError(t, err)

	raw, err := client.Get([]byte("quotes_c:1"))
	require.NoError(t, err)

	var row map[string]any
	require.NoError(t, json.Unmarshal(raw, &row))
	assert.Equal(t, "Q-1", row["Name"])
	assert.Equal(t, `{"city":"Springfield"}`, row["billing_address_c"])
	assert.Equal(t, 1.0, row["Id"])

	got, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Springfield"}, got.Fields["billingAddress"])
	assert.NotContains(t, got.Fields, "Id")
}

func TestKVStoreOrdersByIDDescendingAndNeverReusesIDs(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	ctx := context.Background()
	store := NewKVStore(client, schema.Contacts)
	for _, name := range []string{"Ann", "Bob", "Cy"} {
		_, err := store.Create(ctx, map[string]any{"firstName": name})
		require.NoError(t, err)
	}

	_, err := store.Delete(ctx, 3)
	require.NoError(t, err)
	created, err := store.Create(ctx, map[string]any{"firstName": "Di"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{4, 2, 1}, []int64{all[0].ID, all[1].ID, all[2].ID})
}

func TestKVStoreSearch(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	ctx := context.Background()
	store := NewKVStore(client, schema.Contacts)
	_, err := store.Create(ctx, map[string]any{
		"firstName": "Ann", "lastName": "Lee", "email": "a@x.com", "company": "Acme",
	})
	require.NoError(t, err)

	found, err := store.Search(ctx, "aCMe")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = store.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestKVStoreMissingRecords(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	ctx := context.Background()
	store := NewKVStore(client, schema.SalesOrders)

	_, err := store.Update(ctx, 9, map[string]any{"status": "Shipped"})
	assert.True(t, errors.Is(err, db.ErrNotFound))

	ok, err := store.Delete(ctx, 9)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	_, err = store.Create(ctx, nil)
	assert.True(t, errors.Is(err, db.ErrInvalidRecord))
}

func TestKVStoreTablesAreIsolated(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	ctx := context.Background()
	deals := NewKVStore(client, schema.Deals)
	contacts := NewKVStore(client, schema.Contacts)

	_, err := deals.Create(ctx, map[string]any{"title": "A"})
	require.NoError(t, err)
	c, err := contacts.Create(ctx, map[string]any{"firstName": "Ann"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)

	all, err := deals.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWriteStatusCountsRecords(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	store := NewKVStore(client, schema.Deals)
	_, err := store.Create(context.Background(), map[string]any{"title": "A"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, WriteStatus(client, &out))
	assert.Contains(t, out.String(), "Server:    localhost")
	assert.Contains(t, out.String(), "Status:    Connected")
	assert.Contains(t, out.String(), "deal:        1")
	assert.Contains(t, out.String(), "contact:     0")
}

type countingKV struct {
	backend
	syncs int
}

func (c *countingKV) Sync() error {
	c.syncs++
	return c.backend.Sync()
}

func TestReadsSyncWhenStale(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	counter := &countingKV{backend: client.kv}
	client.kv = counter
	client.config.StaleThreshold = time.Minute
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	ctx := context.Background()
	store := NewKVStore(client, schema.Deals)

	_, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.syncs, "never synced counts as stale")

	_, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.syncs, "fresh data is read locally")

	now = now.Add(2 * time.Minute)
	_, _ = store.GetByID(ctx, 1)
	assert.Equal(t, 2, counter.syncs)
}

func TestZeroStaleThresholdNeverSyncsOnRead(t *testing.T) {
	client, cleanup := NewTestClient(t)
	defer cleanup()

	counter := &countingKV{backend: client.kv}
	client.kv = counter

	_, err := NewKVStore(client, schema.Deals).GetAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, counter.syncs)
}

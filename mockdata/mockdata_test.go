// ABOUTME: Tests for the embedded sample data
// ABOUTME: Every seed must decode into valid typed entities
package mockdata

import (
	"context"
	"testing"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEverySeedDecodesAndValidates(t *testing.T) {
	repos := repository.Open(func(entity schema.Entity) db.Store {
		store, err := NewStore(entity, 0)
		require.NoError(t, err)
		return store
	})
	ctx := context.Background()

	contacts, err := repos.Contacts.GetAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, contacts)
	for _, c := range contacts {
		assert.NoError(t, models.Validate(c), "contact %d", c.ID)
	}

	deals, err := repos.Deals.GetAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, deals)
	for _, d := range deals {
		assert.NoError(t, models.Validate(d), "deal %d", d.ID)
	}

	companies, err := repos.Companies.GetAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, companies)
	require.NotNil(t, companies[0].Address)
	assert.Equal(t, "San Francisco", companies[0].Address.City)

	for _, check := range []func() error{
		func() error { _, err := repos.Quotes.GetAll(ctx); return err },
		func() error { _, err := repos.SalesOrders.GetAll(ctx); return err },
		func() error { _, err := repos.Activities.GetAll(ctx); return err },
	} {
		assert.NoError(t, check())
	}
}

func TestRecordsAreFreshCopies(t *testing.T) {
	first, err := Records(schema.Deals)
	require.NoError(t, err)
	first[0].Fields["title"] = "changed"

	second, err := Records(schema.Deals)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", second[0].Fields["title"])
	assert.Equal(t, int64(1), second[0].ID)
	_, hasID := second[0].Fields[schema.IDKey]
	assert.False(t, hasID)
}

func TestNewStoreContinuesIds(t *testing.T) {
	store, err := NewStore(schema.Contacts, 0)
	require.NoError(t, err)

	seed, err := Records(schema.Contacts)
	require.NoError(t, err)

	rec, err := store.Create(context.Background(), map[string]any{"firstName": "New"})
	require.NoError(t, err)
	assert.Equal(t, int64(len(seed)+1), rec.ID)
}

func TestLoadSeedsEmptyCollectionsOnce(t *testing.T) {
	database, err := db.OpenDatabase(":memory:")
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	open := func(entity schema.Entity) db.Store {
		return db.NewSQLiteStore(database, entity)
	}
	ctx := context.Background()

	loaded, err := Load(ctx, open)
	require.NoError(t, err)
	assert.Len(t, loaded, len(schema.All()))

	seed, err := Records(schema.Deals)
	require.NoError(t, err)
	assert.Equal(t, len(seed), loaded[schema.Deals.Name])

	again, err := Load(ctx, open)
	require.NoError(t, err)
	assert.Empty(t, again)

	deal, err := open(schema.Deals).GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "TechCorp Platform Renewal", deal.String("title"))
}

func TestUnknownEntity(t *testing.T) {
	_, err := Records(schema.Entity{Name: "widget", Table: "widget_c"})
	assert.Error(t, err)
}

// ABOUTME: Tests for MCP tool, resource and prompt handlers
// ABOUTME: Handlers run directly against in-memory repositories
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.Open(func(entity schema.Entity) db.Store {
		return db.NewMemoryStore(entity, nil)
	})
}

func strPtr(s string) *string { return &s }

func TestAddAndFindContacts(t *testing.T) {
	repos := setupRepos(t)
	h := NewContactHandlers(repos)
	ctx := context.Background()

	_, added, err := h.AddContact(ctx, nil, AddContactInput{
		FirstName: "Ann", LastName: "Lee", Email: "ann@acme.com", Company: "Acme", Tags: []string{"vip"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added.ID)
	assert.NotEmpty(t, added.CreatedAt)

	_, _, err = h.AddContact(ctx, nil, AddContactInput{
		FirstName: "Bob", LastName: "Ray", Email: "bob@globex.com", Company: "Globex",
	})
	require.NoError(t, err)

	_, found, err := h.FindContacts(ctx, nil, FindContactsInput{Query: "lee"})
	require.NoError(t, err)
	require.Equal(t, 1, found.Count)
	assert.Equal(t, "ann@acme.com", found.Contacts[0].Email)

	_, byTag, err := h.FindContacts(ctx, nil, FindContactsInput{Tag: "vip"})
	require.NoError(t, err)
	assert.Equal(t, 1, byTag.Count)

	_, all, err := h.FindContacts(ctx, nil, FindContactsInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Count)
}

func TestAddContactValidation(t *testing.T) {
	h := NewContactHandlers(setupRepos(t))

	_, _, err := h.AddContact(context.Background(), nil, AddContactInput{FirstName: "Ann"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestDealLifecycle(t *testing.T) {
	repos := setupRepos(t)
	h := NewDealHandlers(repos)
	ctx := context.Background()

	_, deal, err := h.CreateDeal(ctx, nil, CreateDealInput{
		Title: "Renewal", Value: 5000, ExpectedCloseDate: "2025-09-30", ContactID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageLead, deal.Stage)
	assert.Equal(t, "2025-09-30T00:00:00Z", deal.ExpectedCloseDate)
	assert.Equal(t, int64(3), deal.ContactID)

	_, updated, err := h.UpdateDeal(ctx, nil, UpdateDealInput{ID: deal.ID, Notes: strPtr("budget approved")})
	require.NoError(t, err)
	assert.Equal(t, "budget approved", updated.Notes)
	assert.Equal(t, 5000.0, updated.Value)

	_, moved, err := h.MoveDeal(ctx, nil, MoveDealInput{ID: deal.ID, Stage: models.StageNegotiation})
	require.NoError(t, err)
	assert.Equal(t, models.StageNegotiation, moved.Stage)

	_, _, err = h.MoveDeal(ctx, nil, MoveDealInput{ID: deal.ID, Stage: "won"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = h.UpdateDeal(ctx, nil, UpdateDealInput{ID: 99, Notes: strPtr("x")})
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, _, err = h.UpdateDeal(ctx, nil, UpdateDealInput{ID: deal.ID})
	assert.Error(t, err)

	_, _, err = h.CreateDeal(ctx, nil, CreateDealInput{Title: "Bad date", ExpectedCloseDate: "soon"})
	assert.Error(t, err)
}

func TestGetPipelineAndDashboard(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	for _, d := range []models.Deal{
		{Title: "Alpha", Stage: models.StageLead, Value: 100},
		{Title: "Beta", Stage: models.StageClosedWon, Value: 300},
		{Title: "Gamma", Stage: models.StageClosedLost, Value: 50},
	} {
		_, err := repos.Deals.Create(ctx, d)
		require.NoError(t, err)
	}

	var logs bytes.Buffer
	h := NewPipelineHandlers(repos, log.New(&logs))

	_, board, err := h.GetPipeline(ctx, nil, GetPipelineInput{})
	require.NoError(t, err)
	require.Len(t, board.Columns, len(models.Stages))
	assert.Equal(t, 3, board.TotalCount)
	assert.Equal(t, 450.0, board.TotalValue)
	assert.Equal(t, 50, board.WinRate)
	assert.Equal(t, "Alpha", board.Columns[0].Deals[0].Title)

	_, narrowed, err := h.GetPipeline(ctx, nil, GetPipelineInput{Search: "beta"})
	require.NoError(t, err)
	assert.Equal(t, 1, narrowed.TotalCount)

	_, dash, err := h.GetDashboard(ctx, nil, GetDashboardInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalDeals)
	assert.Equal(t, 450.0, dash.TotalValue)
	assert.Equal(t, 50, dash.WinRate)
}

func TestQueryCRM(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	for _, d := range []models.Deal{
		{Title: "Small", Stage: models.StageLead, Value: 100},
		{Title: "Large", Stage: models.StageLead, Value: 9000},
		{Title: "Won", Stage: models.StageClosedWon, Value: 5000},
	} {
		_, err := repos.Deals.Create(ctx, d)
		require.NoError(t, err)
	}
	h := NewQueryHandlers(repos)

	_, out, err := h.QueryCRM(ctx, nil, QueryCRMInput{
		EntityType: "deal",
		Facets:     map[string]string{"stage": models.StageLead},
		Where:      "value > 1000",
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Large", out.Results[0].(models.Deal).Title)

	_, _, err = h.QueryCRM(ctx, nil, QueryCRMInput{EntityType: "relationship"})
	assert.Error(t, err)

	_, _, err = h.QueryCRM(ctx, nil, QueryCRMInput{EntityType: "deal", Where: "value >"})
	assert.Error(t, err)
}

func TestReadResource(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	_, err := repos.Deals.Create(ctx, models.Deal{Title: "Renewal", Stage: models.StageProposal, Value: 10})
	require.NoError(t, err)
	h := NewResourceHandlers(repos)

	read := func(uri string) (*mcp.ReadResourceResult, error) {
		return h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	}

	res, err := read("dealdesk://deals/1")
	require.NoError(t, err)
	var deal models.Deal
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &deal))
	assert.Equal(t, "Renewal", deal.Title)

	res, err = read("dealdesk://pipeline")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"stageKey": "proposal"`)

	_, err = read("dealdesk://deals/2")
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = read("crm://deals")
	assert.Error(t, err)

	_, err = read("dealdesk://widgets")
	assert.Error(t, err)

	assert.Len(t, Resources(), 7)
}

func TestPrompts(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	c, err := repos.Contacts.Create(ctx, models.Contact{FirstName: "Ann", LastName: "Lee", Email: "ann@acme.com"})
	require.NoError(t, err)
	_, err = repos.Deals.Create(ctx, models.Deal{Title: "Renewal", Stage: models.StageLead, Value: 1500, ContactID: &c.ID})
	require.NoError(t, err)
	h := NewPromptHandlers(repos)

	get := func(name string, args map[string]string) (*mcp.GetPromptResult, error) {
		return h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: name, Arguments: args}})
	}

	res, err := get("deal-analysis", nil)
	require.NoError(t, err)
	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Total Deals: 1")
	assert.Contains(t, text, "Lead: 1 deals, $1,500")

	res, err = get("contact-summary", map[string]string{"contact_id": "1"})
	require.NoError(t, err)
	text = res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "Name: Ann Lee")
	assert.Contains(t, text, "Renewal (Lead, $1,500)")

	_, err = get("contact-summary", nil)
	assert.Error(t, err)
	_, err = get("nope", nil)
	assert.Error(t, err)
}

func TestNewServerRegistersTools(t *testing.T) {
	server := NewServer(setupRepos(t), log.New(&bytes.Buffer{}), "test")
	require.NotNil(t, server)
}

// ABOUTME: Tests for the TUI model
// ABOUTME: Drives Update with key messages and runs the returned commands synchronously
package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/mockdata"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/schema"
)

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.Open(func(entity schema.Entity) db.Store {
		store, err := mockdata.NewStore(entity, 0)
		require.NoError(t, err)
		return store
	})
}

func newLoadedModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(&bytes.Buffer{}))}, opts...)
	m := NewModel(setupRepos(t), opts...)
	return update(t, m, m.Init()())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the model plus the command it produced.
func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(k))
	return next.(Model), cmd
}

// settle runs a save command, applies its result and the reload it triggers.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, reload := m.Update(cmd())
	m = next.(Model)
	if reload != nil {
		m = update(t, m, reload())
	}
	return m
}

func TestInitialLoadBuildsBoard(t *testing.T) {
	m := newLoadedModel(t)

	assert.False(t, m.loading)
	require.NoError(t, m.err)
	require.Len(t, m.board.Columns, len(models.Stages))
	assert.Equal(t, 8, m.board.TotalCount())
	assert.Len(t, m.contacts, 6)
	assert.Len(t, m.companies, 5)

	view := m.View()
	assert.Contains(t, view, "DEALDESK")
	assert.Contains(t, view, "Lead (2)")
	assert.Contains(t, view, "Negotiation (1)")
	assert.Contains(t, view, "8 deals")
}

func TestNavigateBoard(t *testing.T) {
	m := newLoadedModel(t)

	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.selectedRow)
	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.selectedRow, "cursor stays on the last deal")

	m, _ = press(t, m, "right")
	assert.Equal(t, 1, m.column)
	assert.Equal(t, 0, m.selectedRow)

	d, ok := m.selectedDeal()
	require.True(t, ok)
	assert.Equal(t, "Global Retail POS Rollout", d.Title)
}

func TestMoveDealToNextStage(t *testing.T) {
	m := newLoadedModel(t)
	repos := m.repos

	d, ok := m.selectedDeal()
	require.True(t, ok)
	require.Equal(t, models.StageLead, d.Stage)

	m, cmd := press(t, m, "]")
	assert.Equal(t, 1, m.column, "cursor follows the deal")
	m = settle(t, m, cmd)

	moved, err := repos.Deals.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageQualified, moved.Stage)
	assert.Contains(t, m.status, "Moved "+d.Title+" to Qualified")
	assert.Equal(t, 2, m.board.Columns[1].Count)

	m, cmd = press(t, m, "[")
	assert.Equal(t, 0, m.column)
	assert.NotNil(t, cmd)
}

func TestMoveIsBlockedAtPipelineEnds(t *testing.T) {
	m := newLoadedModel(t)

	_, cmd := press(t, m, "[")
	assert.Nil(t, cmd)
}

func TestSearchNarrowsBoard(t *testing.T) {
	m := newLoadedModel(t)

	m, _ = press(t, m, "/")
	require.True(t, m.searching)

	var cmd tea.Cmd
	for _, r := range "techcorp" {
		m, cmd = press(t, m, string(r))
	}
	assert.Equal(t, "techcorp", m.searchQuery)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)

	// Fetch again for the settled query; earlier in-flight fetches are stale.
	m = update(t, m, m.load()())
	assert.Equal(t, 2, m.board.TotalCount())
	assert.Len(t, m.contacts, 2)

	m, _ = press(t, m, "q")
	assert.Equal(t, "techcorpq", m.searchQuery, "q types while searching")

	m, _ = press(t, m, "esc")
	assert.False(t, m.searching)
	assert.Equal(t, "", m.searchQuery)
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	m := newLoadedModel(t)

	stale := m.seq.Next()
	latest := m.seq.Next()

	m = update(t, m, loadedMsg{token: stale, err: errors.New("backend unavailable")})
	assert.NoError(t, m.err, "stale failure must not replace current state")
	assert.Equal(t, 8, m.board.TotalCount())

	m = update(t, m, loadedMsg{token: latest, err: errors.New("backend unavailable")})
	assert.EqualError(t, m.err, "backend unavailable")
	assert.Contains(t, m.View(), "Press r to retry")
}

func TestReadOnlyBlocksMutations(t *testing.T) {
	m := newLoadedModel(t, ReadOnly())

	m, cmd := press(t, m, "]")
	assert.Nil(t, cmd)
	assert.Equal(t, "Read-only: log in to make changes", m.status)

	m, _ = press(t, m, "n")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestCreateDealFromForm(t *testing.T) {
	m := newLoadedModel(t)

	m, _ = press(t, m, "n")
	require.Equal(t, ViewEdit, m.viewMode)
	require.Len(t, m.formInputs, 6)

	m, _ = press(t, m, "Pilot")
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "2500")
	assert.Equal(t, 1, m.focusIndex)

	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, "Created deal Pilot", m.status)
	assert.Equal(t, 9, m.board.TotalCount())

	created, err := m.repos.Deals.GetByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, created.Value)
	assert.Equal(t, models.StageLead, created.Stage)
}

func TestFormRejectsBadInput(t *testing.T) {
	m := newLoadedModel(t)

	m, _ = press(t, m, "n")
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "lots")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.EqualError(t, m.err, `invalid value "lots"`)
	assert.Equal(t, ViewEdit, m.viewMode)

	// A blank title parses but fails validation in the repository.
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "tab")
	require.Equal(t, 0, m.focusIndex)
	m.formInputs[1].SetValue("10")
	m, cmd = press(t, m, "enter")
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.ErrorIs(t, m.err, models.ErrValidation)
	assert.Equal(t, ViewEdit, m.viewMode)
}

func TestDeleteDealWithConfirmation(t *testing.T) {
	m := newLoadedModel(t)
	d, ok := m.selectedDeal()
	require.True(t, ok)

	m, _ = press(t, m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), d.Title)

	m, _ = press(t, m, "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "DELETE CONFIRMATION")

	m, _ = press(t, m, "n")
	assert.Equal(t, ViewDetail, m.viewMode)

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "y")
	m = settle(t, m, cmd)

	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, "Deleted "+d.Title, m.status)
	_, err := m.repos.Deals.GetByID(context.Background(), d.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestContactsTabAndDetail(t *testing.T) {
	m := newLoadedModel(t)

	m, _ = press(t, m, "tab")
	require.Equal(t, EntityContacts, m.entityType)
	assert.Contains(t, m.View(), "John Smith")

	m, _ = press(t, m, "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	view := m.View()
	assert.Contains(t, view, "john.smith@techcorp.com")
	assert.Contains(t, view, "TechCorp Platform Renewal (Negotiation, $85,000)")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestGraphView(t *testing.T) {
	m := newLoadedModel(t)

	m, cmd := press(t, m, "g")
	require.Equal(t, ViewGraph, m.viewMode)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Contains(t, m.graphDOT, "stage_lead")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestQuit(t *testing.T) {
	m := newLoadedModel(t)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

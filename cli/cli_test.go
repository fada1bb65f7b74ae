// ABOUTME: Tests for CLI commands against the seeded mock backend
// ABOUTME: Commands write to a buffer and keep their session in a temp dir
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/config"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/pipeline"
	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()

	logger := log.New(&bytes.Buffer{})
	factory, closer, err := OpenStores(config.Config{Backend: config.BackendMemory}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	out := &bytes.Buffer{}
	return &Env{
		Repos:   repository.Open(factory),
		Session: session.NewStore(filepath.Join(t.TempDir(), "session.json")),
		Logger:  logger,
		Out:     out,
		Now:     func() time.Time { return testNow },
	}, out
}

func login(t *testing.T, env *Env) {
	t.Helper()
	_, err := env.Session.Login("tester")
	require.NoError(t, err)
}

func TestMutatingCommandsRequireLogin(t *testing.T) {
	env, _ := newTestEnv(t)

	err := AddContactCommand(env, []string{"--first-name", "Ann", "--last-name", "Lee", "--email", "ann@acme.com"})
	assert.True(t, errors.Is(err, session.ErrNotLoggedIn))

	err = MoveDealCommand(env, []string{"--stage", models.StageProposal, "1"})
	assert.True(t, errors.Is(err, session.ErrNotLoggedIn))

	err = DeleteDealCommand(env, []string{"1"})
	assert.True(t, errors.Is(err, session.ErrNotLoggedIn))

	_, err = env.Repos.Deals.GetByID(context.Background(), 1)
	assert.NoError(t, err, "nothing is deleted without a session")
}

func TestSessionCommands(t *testing.T) {
	env, out := newTestEnv(t)

	require.NoError(t, WhoAmICommand(env, nil))
	assert.Equal(t, "Not logged in\n", out.String())

	out.Reset()
	require.NoError(t, LoginCommand(env, []string{"--user", "dana"}))
	assert.Equal(t, "✓ Logged in as dana\n", out.String())

	out.Reset()
	require.NoError(t, WhoAmICommand(env, nil))
	assert.Contains(t, out.String(), "dana (since ")

	out.Reset()
	require.NoError(t, LogoutCommand(env, nil))
	assert.Equal(t, "✓ Logged out\n", out.String())

	assert.Error(t, LoginCommand(env, nil))
}

func TestAddAndListContacts(t *testing.T) {
	env, out := newTestEnv(t)
	login(t, env)

	require.NoError(t, AddContactCommand(env, []string{
		"--first-name", "Ann", "--last-name", "Lee", "--email", "ann@acme.com",
		"--company", "Acme", "--tags", "vip, partner",
	}))
	assert.Contains(t, out.String(), "✓ Contact created: Ann Lee (ID: 7)")

	out.Reset()
	require.NoError(t, ListContactsCommand(env, []string{"--company", "TechCorp Solutions"}))
	assert.Contains(t, out.String(), "John Smith")
	assert.Contains(t, out.String(), "David Wilson")
	assert.NotContains(t, out.String(), "Ann Lee")
	assert.Contains(t, out.String(), "Total: 2 contact(s)")

	out.Reset()
	require.NoError(t, ListContactsCommand(env, []string{"--tags", "vip"}))
	assert.Contains(t, out.String(), "Ann Lee")
	assert.Contains(t, out.String(), "Total: 1 contact(s)")

	out.Reset()
	require.NoError(t, ListContactsCommand(env, []string{"--query", "nobody-here"}))
	assert.Equal(t, "No contacts found\n", out.String())
}

func TestAddContactRejectsInvalid(t *testing.T) {
	env, _ := newTestEnv(t)
	login(t, env)

	err := AddContactCommand(env, []string{"--first-name", "Ann"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestUpdateAndShowContact(t *testing.T) {
	env, out := newTestEnv(t)
	login(t, env)

	require.NoError(t, UpdateContactCommand(env, []string{"--phone", "555-0100", "--notes", "prefers email", "1"}))
	assert.Equal(t, "✓ Contact updated: John Smith (ID: 1)\n", out.String())

	out.Reset()
	require.NoError(t, ShowContactCommand(env, []string{"1"}))
	assert.Contains(t, out.String(), "Phone:        555-0100")
	assert.Contains(t, out.String(), "Notes:        prefers email")
	assert.Contains(t, out.String(), "#1 TechCorp Platform Renewal (negotiation, $85000.00)")

	assert.Error(t, UpdateContactCommand(env, []string{"1"}), "no flags means nothing to update")
	assert.True(t, errors.Is(ShowContactCommand(env, []string{"99"}), db.ErrNotFound))
}

func TestListDealsWithWhere(t *testing.T) {
	env, out := newTestEnv(t)

	require.NoError(t, ListDealsCommand(env, []string{"--where", "value >= 60000"}))
	assert.Contains(t, out.String(), "Global Retail POS Rollout")
	assert.Contains(t, out.String(), "TechCorp Platform Renewal")
	assert.Contains(t, out.String(), "Global Retail Loyalty App")
	assert.Contains(t, out.String(), "Total: 3 deal(s)")

	out.Reset()
	require.NoError(t, ListDealsCommand(env, []string{"--stage", models.StageLead, "--where", "value > 10000"}))
	assert.Contains(t, out.String(), "Innovate Labs Expansion")
	assert.Contains(t, out.String(), "Total: 1 deal(s)")

	assert.Error(t, ListDealsCommand(env, []string{"--where", "value >"}))
}

func TestAddAndMoveDeal(t *testing.T) {
	env, out := newTestEnv(t)
	login(t, env)

	require.NoError(t, AddDealCommand(env, []string{"--title", "Pilot", "--value", "2500", "--close-date", "2025-08-01"}))
	assert.Contains(t, out.String(), "✓ Deal created: Pilot (ID: 9)")
	assert.Contains(t, out.String(), "Stage: Lead")
	assert.Contains(t, out.String(), "Value: $2,500")

	out.Reset()
	require.NoError(t, MoveDealCommand(env, []string{"--stage", models.StageProposal, "9"}))
	assert.Equal(t, "✓ Deal moved: Pilot → Proposal\n", out.String())

	err := MoveDealCommand(env, []string{"--stage", "won", "9"})
	assert.True(t, errors.Is(err, models.ErrValidation))

	assert.Error(t, MoveDealCommand(env, []string{"9"}), "--stage is required")
	assert.Error(t, AddDealCommand(env, []string{"--title", "Bad", "--close-date", "next week"}))
}

func TestLogActivityUpdatesLastContact(t *testing.T) {
	env, out := newTestEnv(t)
	login(t, env)

	require.NoError(t, LogActivityCommand(env, []string{
		"--type", models.ActivityCall, "--description", "Renewal check-in",
		"--contact", "6", "--date", "2025-06-14",
	}))
	assert.Equal(t, "✓ Logged call (ID: 7) on 2025-06-14\n", out.String())

	contact, err := env.Repos.Contacts.GetByID(context.Background(), 6)
	require.NoError(t, err)
	require.NotNil(t, contact.LastContact)
	assert.True(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC).Equal(*contact.LastContact))

	out.Reset()
	require.NoError(t, ListActivitiesCommand(env, []string{"--limit", "1"}))
	assert.Contains(t, out.String(), "Renewal check-in")

	err = LogActivityCommand(env, []string{"--contact", "99"})
	assert.True(t, errors.Is(err, db.ErrNotFound))
}

func TestPipelineJSON(t *testing.T) {
	env, out := newTestEnv(t)

	require.NoError(t, PipelineCommand(env, []string{"--json"}))

	var board pipeline.Board
	require.NoError(t, json.Unmarshal(out.Bytes(), &board))
	require.Len(t, board.Columns, len(models.Stages))
	assert.Equal(t, 8, board.TotalCount())
	assert.Equal(t, 403000.0, board.TotalValue())

	out.Reset()
	require.NoError(t, PipelineCommand(env, []string{"--search", "techcorp", "--json"}))
	board = pipeline.Board{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &board))
	assert.Equal(t, 2, board.TotalCount())
}

func TestDashboardAndReport(t *testing.T) {
	env, out := newTestEnv(t)

	require.NoError(t, DashboardCommand(env, []string{"--json"}))
	var summary pipeline.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 6, summary.TotalContacts)
	assert.Equal(t, 8, summary.TotalDeals)

	out.Reset()
	require.NoError(t, DashboardCommand(env, nil))
	assert.Contains(t, out.String(), "$403,000")

	out.Reset()
	require.NoError(t, ReportCommand(env, []string{"--json"}))
	var report pipeline.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.NotEmpty(t, report.Months)
}

func TestGraphCommand(t *testing.T) {
	env, out := newTestEnv(t)

	require.NoError(t, GraphCommand(env, nil))
	assert.Contains(t, out.String(), "digraph")
	assert.Contains(t, out.String(), "stage_lead")

	path := filepath.Join(t.TempDir(), "accounts.dot")
	out.Reset()
	require.NoError(t, GraphCommand(env, []string{"--kind", "accounts", "--company", "1", "--output", path}))
	assert.Contains(t, out.String(), "✓ Graph written to")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "company_1")

	assert.Error(t, GraphCommand(env, []string{"--format", "png"}))
	assert.Error(t, GraphCommand(env, []string{"--kind", "org"}))
}

func TestOpenStoresRejectsUnknownBackend(t *testing.T) {
	_, _, err := OpenStores(config.Config{Backend: "postgres"}, log.New(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestOpenStoresSQLite(t *testing.T) {
	factory, closer, err := OpenStores(config.Config{
		Backend: config.BackendSQLite,
		DBPath:  filepath.Join(t.TempDir(), "dealdesk.db"),
	}, log.New(&bytes.Buffer{}))
	require.NoError(t, err)
	defer func() { _ = closer() }()

	repos := repository.Open(factory)
	all, err := repos.Deals.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParseID(t *testing.T) {
	id, err := parseID("deal", []string{"42"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("deal", nil)
	assert.EqualError(t, err, "deal ID is required")

	_, err = parseID("deal", []string{"0"})
	assert.EqualError(t, err, "invalid deal ID: 0")
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDate("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), *d)

	d, err = parseDate("2025-03-04T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = parseDate("03/04/2025")
	assert.Error(t, err)
}

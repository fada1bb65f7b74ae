// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive pipeline board with live search over the CRM repositories
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/pipeline"
	"github.com/harperreed/dealdesk/repository"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// EntityType represents the type of entity being viewed
type EntityType int

const (
	EntityDeals EntityType = iota
	EntityContacts
	EntityCompanies
)

const entityCount = 3

// Model is the main bubbletea model
type Model struct {
	repos   *repository.Repositories
	logger  *log.Logger
	seq     *filter.Sequencer
	canEdit bool

	viewMode   ViewMode
	entityType EntityType

	// Loaded data. board, contacts and companies are narrowed by the search
	// query; deals and the name maps are not.
	board        pipeline.Board
	contacts     []models.Contact
	companies    []models.Company
	deals        []models.Deal
	contactNames map[int64]string
	companyNames map[int64]string
	loading      bool

	// List view state
	column      int
	selectedRow int
	searching   bool
	searchInput textinput.Model
	searchQuery string

	// Detail, edit and delete state
	selectedID int64
	formInputs []textinput.Model
	focusIndex int

	// Graph view state
	graphDOT string

	// UI state
	status string
	width  int
	height int
	err    error
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// ReadOnly disables every key that would change data.
func ReadOnly() Option {
	return func(m *Model) {
		m.canEdit = false
	}
}

// NewModel creates a new TUI model
func NewModel(repos *repository.Repositories, opts ...Option) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 100

	m := Model{
		repos:        repos,
		logger:       log.Default(),
		seq:          filter.NewSequencer(),
		canEdit:      true,
		viewMode:     ViewList,
		entityType:   EntityDeals,
		contactNames: map[int64]string{},
		companyNames: map[int64]string{},
		loading:      true,
		searchInput:  search,
		width:        120,
		height:       30,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// loadedMsg carries one fetch. Only the result whose token is still the
// latest issued is applied.
type loadedMsg struct {
	token        ulid.ULID
	board        pipeline.Board
	contacts     []models.Contact
	companies    []models.Company
	deals        []models.Deal
	contactNames map[int64]string
	companyNames map[int64]string
	err          error
}

// savedMsg reports the outcome of a create, update, move or delete.
type savedMsg struct {
	status string
	err    error
}

type graphMsg struct {
	dot string
	err error
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		if !m.seq.Accept(msg.token) {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.board = msg.board
			m.contacts = msg.contacts
			m.companies = msg.companies
			m.deals = msg.deals
			m.contactNames = msg.contactNames
			m.companyNames = msg.companyNames
			m.clampSelection()
		}
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = msg.status
		if m.viewMode == ViewEdit || m.viewMode == ViewConfirmDelete {
			m.viewMode = ViewList
			m.selectedID = 0
		}
		return m, m.reload()
	case graphMsg:
		if msg.err != nil {
			m.err = msg.err
			m.viewMode = ViewList
			return m, nil
		}
		m.graphDOT = msg.dot
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searching {
		return m.handleSearchKeys(msg)
	}
	if msg.String() == "q" && m.viewMode != ViewEdit {
		return m, tea.Quit
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// load issues a fresh token and fetches every collection in the background.
func (m Model) load() tea.Cmd {
	token := m.seq.Next()
	repos, logger, query := m.repos, m.logger, m.searchQuery
	return func() tea.Msg {
		return fetch(context.Background(), repos, logger, token, query)
	}
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	return m.load()
}

func fetch(ctx context.Context, repos *repository.Repositories, logger *log.Logger, token ulid.ULID, query string) loadedMsg {
	msg := loadedMsg{token: token}

	deals, err := repos.Deals.GetAll(ctx)
	if err != nil {
		msg.err = err
		return msg
	}
	contacts, err := repos.Contacts.GetAll(ctx)
	if err != nil {
		msg.err = err
		return msg
	}
	companies, err := repos.Companies.GetAll(ctx)
	if err != nil {
		msg.err = err
		return msg
	}

	msg.board = pipeline.Aggregate(filter.Deals().Apply(deals, query, nil))
	pipeline.LogIssues(logger, msg.board.Issues)
	msg.contacts = filter.Contacts().Apply(contacts, query, nil)
	msg.companies = filter.Companies().Apply(companies, query, nil)
	msg.deals = deals

	msg.contactNames = make(map[int64]string, len(contacts))
	for _, c := range contacts {
		msg.contactNames[c.ID] = c.FullName()
	}
	msg.companyNames = make(map[int64]string, len(companies))
	for _, c := range companies {
		msg.companyNames[c.ID] = c.Name
	}
	return msg
}

// rowCount is the number of selectable rows in the current list.
func (m Model) rowCount() int {
	switch m.entityType {
	case EntityDeals:
		if m.column < len(m.board.Columns) {
			return len(m.board.Columns[m.column].Deals)
		}
	case EntityContacts:
		return len(m.contacts)
	case EntityCompanies:
		return len(m.companies)
	}
	return 0
}

func (m *Model) clampSelection() {
	if m.column >= len(m.board.Columns) {
		m.column = 0
	}
	if n := m.rowCount(); m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
}

// selectedDeal returns the deal under the board cursor.
func (m Model) selectedDeal() (models.Deal, bool) {
	if m.column >= len(m.board.Columns) {
		return models.Deal{}, false
	}
	deals := m.board.Columns[m.column].Deals
	if m.selectedRow >= len(deals) {
		return models.Deal{}, false
	}
	return deals[m.selectedRow], true
}

// getSelectedID returns the Id under the cursor, or 0 when the list is empty.
func (m Model) getSelectedID() int64 {
	switch m.entityType {
	case EntityDeals:
		if d, ok := m.selectedDeal(); ok {
			return d.ID
		}
	case EntityContacts:
		if m.selectedRow < len(m.contacts) {
			return m.contacts[m.selectedRow].ID
		}
	case EntityCompanies:
		if m.selectedRow < len(m.companies) {
			return m.companies[m.selectedRow].ID
		}
	}
	return 0
}

func (m *Model) requireEdit() bool {
	if !m.canEdit {
		m.status = "Read-only: log in to make changes"
		return false
	}
	return true
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

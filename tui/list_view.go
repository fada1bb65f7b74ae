// ABOUTME: Pipeline board and entity tables for the TUI list view
// ABOUTME: Handles navigation, live search and moving deals between stages
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/viz"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("170"))

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true)

	selectedDealStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("DEALDESK"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n")

	if m.searching || m.searchQuery != "" {
		s.WriteString(m.searchInput.View())
		s.WriteString("\n")
	}
	s.WriteString("\n")

	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n" + mutedStyle.Render("Press r to retry"))
	case m.loading && len(m.board.Columns) == 0:
		s.WriteString("Loading...")
	default:
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"Pipeline", "Contacts", "Companies"}
	var rendered []string

	for i, tab := range tabs {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch m.entityType {
	case EntityDeals:
		return m.renderBoard()
	case EntityContacts:
		return m.renderContactsTable()
	case EntityCompanies:
		return m.renderCompaniesTable()
	}
	return ""
}

// columnWidth splits the terminal width evenly across the stage columns.
func (m Model) columnWidth() int {
	n := max(len(m.board.Columns), 1)
	return max(m.width/n-2, 16)
}

func (m Model) renderBoard() string {
	width := m.columnWidth()
	inner := width - 2

	columns := make([]string, 0, len(m.board.Columns))
	for i, col := range m.board.Columns {
		var c strings.Builder
		c.WriteString(columnHeaderStyle.Render(truncate(fmt.Sprintf("%s (%d)", col.Label, col.Count), inner)))
		c.WriteString("\n")
		c.WriteString(mutedStyle.Render(viz.FormatMoney(col.TotalValue)))
		c.WriteString("\n")

		for j, d := range col.Deals {
			line := truncate(d.Title, inner)
			if i == m.column && j == m.selectedRow {
				line = selectedDealStyle.Render(line)
			}
			c.WriteString("\n" + line)
		}

		style := columnStyle
		if i == m.column {
			style = activeColumnStyle
		}
		columns = append(columns, style.Width(width).Render(c.String()))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	summary := fmt.Sprintf("%d deals • %s • win rate %d%%",
		m.board.TotalCount(), viz.FormatMoney(m.board.TotalValue()), m.board.WinRate())
	if n := len(m.board.Issues); n > 0 {
		summary += errorStyle.Render(fmt.Sprintf(" • %d deal(s) with unknown stage hidden", n))
	}
	return board + "\n" + summary
}

func (m Model) renderContactsTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Email", Width: 30},
		{Title: "Company", Width: 25},
		{Title: "Last Contact", Width: 12},
	}

	var rows []table.Row
	for _, c := range m.contacts {
		last := ""
		if c.LastContact != nil {
			last = c.LastContact.Format("2006-01-02")
		}
		rows = append(rows, table.Row{c.FullName(), c.Email, c.Company, last})
	}

	return m.renderEntityTable(columns, rows)
}

func (m Model) renderCompaniesTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "Industry", Width: 20},
		{Title: "Size", Width: 12},
		{Title: "Website", Width: 30},
	}

	var rows []table.Row
	for _, c := range m.companies {
		rows = append(rows, table.Row{c.Name, c.Industry, c.Size, c.Website})
	}

	return m.renderEntityTable(columns, rows)
}

func (m Model) renderEntityTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 5)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"/: Search",
		"n: New",
	}
	if m.entityType == EntityDeals {
		help = append(help, "←/→: Stage", "[/]: Move deal", "g: Graph")
	}
	help = append(help, "r: Reload", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "left", "h":
		if m.entityType == EntityDeals && m.column > 0 {
			m.column--
			m.selectedRow = 0
		}
	case "right", "l":
		if m.entityType == EntityDeals && m.column < len(m.board.Columns)-1 {
			m.column++
			m.selectedRow = 0
		}
	case "tab":
		m.entityType = (m.entityType + 1) % entityCount
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != 0 {
			m.viewMode = ViewDetail
			m.selectedID = id
		}
	case "/":
		m.searching = true
		cmd := m.searchInput.Focus()
		return m, cmd
	case "n":
		if !m.requireEdit() {
			return m, nil
		}
		m.selectedID = 0
		m.initFormInputs()
		m.viewMode = ViewEdit
	case "[":
		return m.moveSelectedDeal(-1)
	case "]":
		return m.moveSelectedDeal(1)
	case "g":
		if m.entityType == EntityDeals {
			m.viewMode = ViewGraph
			m.selectedID = 0
			m.graphDOT = ""
			return m, m.generateGraph()
		}
	case "r":
		m.err = nil
		return m, m.reload()
	}

	return m, nil
}

// handleSearchKeys feeds the search box. Every change to the query starts a
// new fetch; results from superseded fetches are dropped on arrival.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		if m.searchQuery == "" {
			return m, nil
		}
		m.searchQuery = ""
		m.selectedRow = 0
		return m, m.reload()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if query := strings.TrimSpace(m.searchInput.Value()); query != m.searchQuery {
		m.searchQuery = query
		m.selectedRow = 0
		return m, tea.Batch(cmd, m.reload())
	}
	return m, cmd
}

// moveSelectedDeal moves the deal under the cursor delta stages along the
// pipeline. The cursor follows the deal's column.
func (m Model) moveSelectedDeal(delta int) (tea.Model, tea.Cmd) {
	if m.entityType != EntityDeals {
		return m, nil
	}
	deal, ok := m.selectedDeal()
	if !ok || !m.requireEdit() {
		return m, nil
	}

	keys := models.StageKeys()
	target := m.column + delta
	if target < 0 || target >= len(keys) {
		return m, nil
	}
	m.column = target
	m.selectedRow = 0

	repos, stage := m.repos, keys[target]
	return m, func() tea.Msg {
		moved, err := repos.Deals.UpdateStage(context.Background(), deal.ID, stage)
		if err != nil {
			return savedMsg{err: fmt.Errorf("failed to move deal: %w", err)}
		}
		return savedMsg{status: fmt.Sprintf("Moved %s to %s", moved.Title, viz.StageLabel(moved.Stage))}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

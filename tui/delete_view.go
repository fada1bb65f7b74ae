// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Handles deletion of deals, contacts and companies with confirmation dialog
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

// selectedName describes the entity awaiting deletion.
func (m Model) selectedName() string {
	switch m.entityType {
	case EntityDeals:
		if d, ok := m.findDeal(m.selectedID); ok {
			return d.Title
		}
	case EntityContacts:
		if c, ok := m.findContact(m.selectedID); ok {
			return c.FullName()
		}
	case EntityCompanies:
		if c, ok := m.findCompany(m.selectedID); ok {
			return c.Name
		}
	}
	return fmt.Sprintf("#%d", m.selectedID)
}

func (m Model) renderConfirmDeleteView() string {
	entityType := strings.ToLower(m.entityTypeName())

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", entityType)
	entityInfo := fmt.Sprintf("\n%s: %s\n", m.entityTypeName(), m.selectedName())
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	if m.err != nil {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", errorStyle.Render(m.err.Error()))
	}

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.performDelete()
	case "n", "N", "esc":
		m.err = nil
		m.viewMode = ViewDetail
	}

	return m, nil
}

func (m Model) performDelete() tea.Cmd {
	repos, id, kind, name := m.repos, m.selectedID, m.entityType, m.selectedName()

	return func() tea.Msg {
		ctx := context.Background()
		var err error
		switch kind {
		case EntityDeals:
			_, err = repos.Deals.Delete(ctx, id)
		case EntityContacts:
			_, err = repos.Contacts.Delete(ctx, id)
		case EntityCompanies:
			_, err = repos.Companies.Delete(ctx, id)
		default:
			err = fmt.Errorf("unknown entity type")
		}
		if err != nil {
			return savedMsg{err: fmt.Errorf("failed to delete: %w", err)}
		}
		return savedMsg{status: "Deleted " + name}
	}
}

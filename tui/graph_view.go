// ABOUTME: Graph view for the TUI
// ABOUTME: Shows the Graphviz source of the pipeline or a company's account graph
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-graphviz"

	"github.com/harperreed/dealdesk/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("GRAPH VIEW"))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		s.WriteString("Generating graph...\n")
	} else {
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.graphDOT = ""
		if m.selectedID != 0 {
			m.viewMode = ViewDetail
		} else {
			m.viewMode = ViewList
		}
	}

	return m, nil
}

// generateGraph renders the account graph for a selected company and the
// pipeline graph otherwise.
func (m Model) generateGraph() tea.Cmd {
	generator := viz.NewGraphGenerator(m.repos)
	company := int64(0)
	if m.entityType == EntityCompanies {
		company = m.selectedID
	}

	return func() tea.Msg {
		ctx := context.Background()
		var out []byte
		var err error
		if company != 0 {
			out, err = generator.GenerateAccountGraph(ctx, &company, graphviz.XDOT)
		} else {
			out, err = generator.GeneratePipelineGraph(ctx, graphviz.XDOT)
		}
		return graphMsg{dot: string(out), err: err}
	}
}

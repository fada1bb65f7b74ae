// ABOUTME: Detail view for a single deal, contact or company
// ABOUTME: Shows fields plus related deals and offers edit, delete and graph actions
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/viz"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render(m.entityTypeName() + " DETAIL"))
	s.WriteString("\n\n")

	// Entity details
	switch m.entityType {
	case EntityDeals:
		s.WriteString(m.renderDealDetail())
	case EntityContacts:
		s.WriteString(m.renderContactDetail())
	case EntityCompanies:
		s.WriteString(m.renderCompanyDetail())
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}

	s.WriteString("\n")

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) findDeal(id int64) (models.Deal, bool) {
	for _, d := range m.deals {
		if d.ID == id {
			return d, true
		}
	}
	return models.Deal{}, false
}

func (m Model) findContact(id int64) (models.Contact, bool) {
	for _, c := range m.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return models.Contact{}, false
}

func (m Model) findCompany(id int64) (models.Company, bool) {
	for _, c := range m.companies {
		if c.ID == id {
			return c, true
		}
	}
	return models.Company{}, false
}

func (m Model) renderDealDetail() string {
	deal, ok := m.findDeal(m.selectedID)
	if !ok {
		return fmt.Sprintf("Deal %d is no longer available", m.selectedID)
	}

	var s strings.Builder
	s.WriteString(m.renderField("Title", deal.Title))
	s.WriteString(m.renderField("Stage", viz.StageLabel(deal.Stage)))
	s.WriteString(m.renderField("Value", viz.FormatMoney(deal.Value)))
	s.WriteString(m.renderField("Probability", fmt.Sprintf("%d%%", deal.Probability)))
	if deal.ExpectedCloseDate != nil {
		s.WriteString(m.renderField("Expected Close", deal.ExpectedCloseDate.Format("2006-01-02")))
	}
	if deal.ContactID != nil {
		s.WriteString(m.renderField("Contact", m.contactNames[*deal.ContactID]))
	}
	if deal.CompanyID != nil {
		s.WriteString(m.renderField("Company", m.companyNames[*deal.CompanyID]))
	}
	s.WriteString(m.renderField("Notes", deal.Notes))
	return s.String()
}

func (m Model) renderContactDetail() string {
	contact, ok := m.findContact(m.selectedID)
	if !ok {
		return fmt.Sprintf("Contact %d is no longer available", m.selectedID)
	}

	var s strings.Builder
	s.WriteString(m.renderField("Name", contact.FullName()))
	s.WriteString(m.renderField("Email", contact.Email))
	s.WriteString(m.renderField("Phone", contact.Phone))
	s.WriteString(m.renderField("Company", contact.Company))
	s.WriteString(m.renderField("Tags", strings.Join(contact.TagSet(), ", ")))
	if contact.LastContact != nil {
		s.WriteString(m.renderField("Last Contacted", contact.LastContact.Format("2006-01-02")))
	}
	s.WriteString(m.renderField("Notes", contact.Notes))

	s.WriteString(m.renderRelatedDeals(func(d models.Deal) bool {
		return d.ContactID != nil && *d.ContactID == contact.ID
	}))
	return s.String()
}

func (m Model) renderCompanyDetail() string {
	company, ok := m.findCompany(m.selectedID)
	if !ok {
		return fmt.Sprintf("Company %d is no longer available", m.selectedID)
	}

	var s strings.Builder
	s.WriteString(m.renderField("Name", company.Name))
	s.WriteString(m.renderField("Industry", company.Industry))
	s.WriteString(m.renderField("Size", company.Size))
	s.WriteString(m.renderField("Website", company.Website))
	s.WriteString(m.renderField("Address", company.Address.String()))
	s.WriteString(m.renderField("Notes", company.Notes))

	s.WriteString(m.renderRelatedDeals(func(d models.Deal) bool {
		return d.CompanyID != nil && *d.CompanyID == company.ID
	}))
	return s.String()
}

func (m Model) renderRelatedDeals(related func(models.Deal) bool) string {
	var s strings.Builder
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("DEALS"))
	s.WriteString("\n")

	n := 0
	for _, d := range m.deals {
		if !related(d) {
			continue
		}
		n++
		s.WriteString(fmt.Sprintf("  • %s (%s, %s)\n", d.Title, viz.StageLabel(d.Stage), viz.FormatMoney(d.Value)))
	}
	if n == 0 {
		s.WriteString(mutedStyle.Render("  none") + "\n")
	}
	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"e: Edit",
		"d: Delete",
	}
	if m.entityType != EntityContacts {
		help = append(help, "g: Graph")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.selectedID = 0
	case "e":
		if !m.requireEdit() {
			return m, nil
		}
		m.initFormInputs()
		m.viewMode = ViewEdit
	case "d":
		if !m.requireEdit() {
			return m, nil
		}
		m.viewMode = ViewConfirmDelete
	case "g":
		if m.entityType == EntityContacts {
			return m, nil
		}
		m.viewMode = ViewGraph
		m.graphDOT = ""
		return m, m.generateGraph()
	}

	return m, nil
}

func (m Model) entityTypeName() string {
	switch m.entityType {
	case EntityDeals:
		return "DEAL"
	case EntityContacts:
		return "CONTACT"
	case EntityCompanies:
		return "COMPANY"
	}
	return ""
}

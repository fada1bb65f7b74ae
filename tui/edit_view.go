// ABOUTME: Create and edit forms for deals, contacts and companies
// ABOUTME: Saves through the repositories in the background and reports the outcome
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/dealdesk/models"
)

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	if m.selectedID == 0 {
		s.WriteString(titleStyle.Render("NEW " + m.entityTypeName()))
	} else {
		s.WriteString(titleStyle.Render("EDIT " + m.entityTypeName()))
	}
	s.WriteString("\n\n")

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	s.WriteString("\n")

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Shift+Tab: Previous field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.err = nil
		if m.selectedID == 0 {
			m.viewMode = ViewList
		} else {
			m.viewMode = ViewDetail
		}
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex - 1 + len(m.formInputs)) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		cmd, err := m.saveEntity()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		return m, cmd
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func newInput(placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = limit
	return input
}

func (m *Model) initFormInputs() {
	switch m.entityType {
	case EntityDeals:
		m.initDealForm()
	case EntityContacts:
		m.initContactForm()
	case EntityCompanies:
		m.initCompanyForm()
	}

	m.err = nil
	m.focusIndex = 0
	m.updateFormFocus()
}

func (m *Model) initDealForm() {
	inputs := []textinput.Model{
		newInput("Title", 100),
		newInput("Value (dollars)", 20),
		newInput("Stage ("+strings.Join(models.StageKeys(), "/")+")", 20),
		newInput("Probability (0-100)", 3),
		newInput("Expected close (YYYY-MM-DD)", 10),
		newInput("Notes", 500),
	}

	// If editing, populate fields
	if deal, ok := m.findDeal(m.selectedID); ok && m.selectedID != 0 {
		inputs[0].SetValue(deal.Title)
		inputs[1].SetValue(strconv.FormatFloat(deal.Value, 'f', -1, 64))
		inputs[2].SetValue(deal.Stage)
		inputs[3].SetValue(strconv.Itoa(deal.Probability))
		if deal.ExpectedCloseDate != nil {
			inputs[4].SetValue(deal.ExpectedCloseDate.Format("2006-01-02"))
		}
		inputs[5].SetValue(deal.Notes)
	}

	m.formInputs = inputs
}

func (m *Model) initContactForm() {
	inputs := []textinput.Model{
		newInput("First name", 100),
		newInput("Last name", 100),
		newInput("Email", 100),
		newInput("Phone", 20),
		newInput("Company", 100),
		newInput("Tags (comma-separated)", 200),
	}

	if contact, ok := m.findContact(m.selectedID); ok && m.selectedID != 0 {
		inputs[0].SetValue(contact.FirstName)
		inputs[1].SetValue(contact.LastName)
		inputs[2].SetValue(contact.Email)
		inputs[3].SetValue(contact.Phone)
		inputs[4].SetValue(contact.Company)
		inputs[5].SetValue(strings.Join(contact.TagSet(), ", "))
	}

	m.formInputs = inputs
}

func (m *Model) initCompanyForm() {
	inputs := []textinput.Model{
		newInput("Name", 100),
		newInput("Industry", 100),
		newInput("Size (Small/Medium/Large/Enterprise)", 20),
		newInput("Website", 200),
		newInput("Notes", 500),
	}

	if company, ok := m.findCompany(m.selectedID); ok && m.selectedID != 0 {
		inputs[0].SetValue(company.Name)
		inputs[1].SetValue(company.Industry)
		inputs[2].SetValue(company.Size)
		inputs[3].SetValue(company.Website)
		inputs[4].SetValue(company.Notes)
	}

	m.formInputs = inputs
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) formValues() []string {
	values := make([]string, len(m.formInputs))
	for i, input := range m.formInputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	return values
}

// saveEntity parses the form and returns the command that stores it.
// Parse errors are reported immediately; validation errors arrive as a
// savedMsg.
func (m Model) saveEntity() (tea.Cmd, error) {
	switch m.entityType {
	case EntityDeals:
		return m.saveDeal()
	case EntityContacts:
		return m.saveContact(), nil
	case EntityCompanies:
		return m.saveCompany(), nil
	}
	return nil, fmt.Errorf("unknown entity type")
}

func (m Model) saveDeal() (tea.Cmd, error) {
	v := m.formValues()

	var value float64
	if v[1] != "" {
		parsed, err := strconv.ParseFloat(strings.TrimPrefix(v[1], "$"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", v[1])
		}
		value = parsed
	}
	stage := v[2]
	if stage == "" {
		stage = models.StageLead
	}
	var probability int
	if v[3] != "" {
		parsed, err := strconv.Atoi(v[3])
		if err != nil {
			return nil, fmt.Errorf("invalid probability %q", v[3])
		}
		probability = parsed
	}
	var closeDate *time.Time
	if v[4] != "" {
		parsed, err := time.Parse("2006-01-02", v[4])
		if err != nil {
			return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", v[4])
		}
		closeDate = &parsed
	}

	repos, id := m.repos, m.selectedID
	if id == 0 {
		deal := models.Deal{
			Title:             v[0],
			Value:             value,
			Stage:             stage,
			Probability:       probability,
			ExpectedCloseDate: closeDate,
			Notes:             v[5],
		}
		return func() tea.Msg {
			created, err := repos.Deals.Create(context.Background(), deal)
			if err != nil {
				return savedMsg{err: fmt.Errorf("failed to create deal: %w", err)}
			}
			return savedMsg{status: "Created deal " + created.Title}
		}, nil
	}

	patch := map[string]any{
		"title":             v[0],
		"value":             value,
		"stage":             stage,
		"probability":       probability,
		"expectedCloseDate": nil,
		"notes":             v[5],
	}
	if closeDate != nil {
		patch["expectedCloseDate"] = closeDate.Format(time.RFC3339)
	}
	return func() tea.Msg {
		updated, err := repos.Deals.Update(context.Background(), id, patch)
		if err != nil {
			return savedMsg{err: fmt.Errorf("failed to update deal: %w", err)}
		}
		return savedMsg{status: "Updated deal " + updated.Title}
	}, nil
}

func (m Model) saveContact() tea.Cmd {
	v := m.formValues()
	tags := splitTags(v[5])

	repos, id := m.repos, m.selectedID
	if id == 0 {
		contact := models.Contact{
			FirstName: v[0],
			LastName:  v[1],
			Email:     v[2],
			Phone:     v[3],
			Company:   v[4],
			Tags:      tags,
		}
		return func() tea.Msg {
			created, err := repos.Contacts.Create(context.Background(), contact)
			if err != nil {
				return savedMsg{err: fmt.Errorf("failed to create contact: %w", err)}
			}
			return savedMsg{status: "Created contact " + created.FullName()}
		}
	}

	patch := map[string]any{
		"firstName": v[0],
		"lastName":  v[1],
		"email":     v[2],
		"phone":     v[3],
		"company":   v[4],
		"tags":      tags,
	}
	return func() tea.Msg {
		updated, err := repos.Contacts.Update(context.Background(), id, patch)
		if err != nil {
			return savedMsg{err: fmt.Errorf("failed to update contact: %w", err)}
		}
		return savedMsg{status: "Updated contact " + updated.FullName()}
	}
}

func (m Model) saveCompany() tea.Cmd {
	v := m.formValues()

	repos, id := m.repos, m.selectedID
	if id == 0 {
		company := models.Company{
			Name:     v[0],
			Industry: v[1],
			Size:     v[2],
			Website:  v[3],
			Notes:    v[4],
		}
		return func() tea.Msg {
			created, err := repos.Companies.Create(context.Background(), company)
			if err != nil {
				return savedMsg{err: fmt.Errorf("failed to create company: %w", err)}
			}
			return savedMsg{status: "Created company " + created.Name}
		}
	}

	patch := map[string]any{
		"name":     v[0],
		"industry": v[1],
		"size":     v[2],
		"website":  v[3],
		"notes":    v[4],
	}
	return func() tea.Msg {
		updated, err := repos.Companies.Update(context.Background(), id, patch)
		if err != nil {
			return savedMsg{err: fmt.Errorf("failed to update company: %w", err)}
		}
		return savedMsg{status: "Updated company " + updated.Name}
	}
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

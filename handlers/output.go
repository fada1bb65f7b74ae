// ABOUTME: Tool output shapes with dates rendered as strings
// ABOUTME: Converts models and pipeline aggregates for MCP structured output
package handlers

import (
	"time"

	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/pipeline"
)

type ContactOutput struct {
	ID          int64    `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	Company     string   `json:"company,omitempty"`
	Tags        []string `json:"tags"`
	Notes       string   `json:"notes,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	LastContact string   `json:"last_contact,omitempty"`
}

func contactToOutput(c models.Contact) ContactOutput {
	return ContactOutput{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Company:     c.Company,
		Tags:        c.TagSet(),
		Notes:       c.Notes,
		CreatedAt:   formatTime(c.CreatedAt),
		LastContact: formatTime(c.LastContact),
	}
}

type DealOutput struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	Value             float64 `json:"value"`
	Stage             string  `json:"stage"`
	Probability       int     `json:"probability"`
	ExpectedCloseDate string  `json:"expected_close_date,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	ContactID         int64   `json:"contact_id,omitempty"`
	CompanyID         int64   `json:"company_id,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

func dealToOutput(d models.Deal) DealOutput {
	out := DealOutput{
		ID:                d.ID,
		Title:             d.Title,
		Value:             d.Value,
		Stage:             d.Stage,
		Probability:       d.Probability,
		ExpectedCloseDate: formatTime(d.ExpectedCloseDate),
		Notes:             d.Notes,
		CreatedAt:         formatTime(d.CreatedAt),
	}
	if d.ContactID != nil {
		out.ContactID = *d.ContactID
	}
	if d.CompanyID != nil {
		out.CompanyID = *d.CompanyID
	}
	return out
}

type ColumnOutput struct {
	Stage      string       `json:"stage"`
	Label      string       `json:"label"`
	Count      int          `json:"count"`
	TotalValue float64      `json:"total_value"`
	Deals      []DealOutput `json:"deals"`
}

type PipelineOutput struct {
	Columns    []ColumnOutput   `json:"columns"`
	TotalCount int              `json:"total_count"`
	TotalValue float64          `json:"total_value"`
	WinRate    int              `json:"win_rate"`
	Issues     []pipeline.Issue `json:"issues,omitempty"`
}

func boardToOutput(b pipeline.Board) PipelineOutput {
	out := PipelineOutput{
		Columns:    make([]ColumnOutput, len(b.Columns)),
		TotalCount: b.TotalCount(),
		TotalValue: b.TotalValue(),
		WinRate:    b.WinRate(),
		Issues:     b.Issues,
	}
	for i, c := range b.Columns {
		col := ColumnOutput{
			Stage:      c.Stage,
			Label:      c.Label,
			Count:      c.Count,
			TotalValue: c.TotalValue,
			Deals:      make([]DealOutput, len(c.Deals)),
		}
		for j, d := range c.Deals {
			col.Deals[j] = dealToOutput(d)
		}
		out.Columns[i] = col
	}
	return out
}

type ActivityOutput struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

type DashboardOutput struct {
	TotalContacts    int                   `json:"total_contacts"`
	TotalDeals       int                   `json:"total_deals"`
	TotalValue       float64               `json:"total_value"`
	WinRate          int                   `json:"win_rate"`
	Stages           []pipeline.StageCount `json:"stages"`
	RecentActivities []ActivityOutput      `json:"recent_activities"`
}

func summaryToOutput(s pipeline.Summary) DashboardOutput {
	out := DashboardOutput{
		TotalContacts:    s.TotalContacts,
		TotalDeals:       s.TotalDeals,
		TotalValue:       s.TotalValue,
		WinRate:          s.WinRate,
		Stages:           s.Stages,
		RecentActivities: make([]ActivityOutput, len(s.RecentActivities)),
	}
	for i, a := range s.RecentActivities {
		out.RecentActivities[i] = ActivityOutput{
			ID:          a.ID,
			Type:        a.Type,
			Description: a.Description,
			Date:        formatTime(a.Date),
		}
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

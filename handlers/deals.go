// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, update_deal and move_deal tools
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/repository"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DealHandlers struct {
	repos *repository.Repositories
}

func NewDealHandlers(repos *repository.Repositories) *DealHandlers {
	return &DealHandlers{repos: repos}
}

var stageHelp = "Deal stage: " + strings.Join(models.StageKeys(), ", ")

type CreateDealInput struct {
	Title             string  `json:"title" jsonschema:"Deal title (required)"`
	Value             float64 `json:"value,omitempty" jsonschema:"Deal value in dollars"`
	Stage             string  `json:"stage,omitempty" jsonschema:"Deal stage (default lead)"`
	Probability       int     `json:"probability,omitempty" jsonschema:"Win probability 0-100"`
	ExpectedCloseDate string  `json:"expected_close_date,omitempty" jsonschema:"Expected close date, YYYY-MM-DD or RFC 3339"`
	ContactID         int64   `json:"contact_id,omitempty" jsonschema:"Contact ID"`
	CompanyID         int64   `json:"company_id,omitempty" jsonschema:"Company ID"`
	Notes             string  `json:"notes,omitempty" jsonschema:"Notes"`
}

func (h *DealHandlers) CreateDeal(ctx context.Context, _ *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	stage := input.Stage
	if stage == "" {
		stage = models.StageLead
	}
	closeDate, err := parseDate(input.ExpectedCloseDate)
	if err != nil {
		return nil, DealOutput{}, err
	}

	deal, err := h.repos.Deals.Create(ctx, models.Deal{
		Title:             input.Title,
		Value:             input.Value,
		Stage:             stage,
		Probability:       input.Probability,
		ExpectedCloseDate: closeDate,
		ContactID:         optionalID(input.ContactID),
		CompanyID:         optionalID(input.CompanyID),
		Notes:             input.Notes,
	})
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

type UpdateDealInput struct {
	ID                int64    `json:"id" jsonschema:"Deal ID (required)"`
	Title             *string  `json:"title,omitempty" jsonschema:"New title"`
	Value             *float64 `json:"value,omitempty" jsonschema:"New value in dollars"`
	Stage             *string  `json:"stage,omitempty" jsonschema:"New stage"`
	Probability       *int     `json:"probability,omitempty" jsonschema:"New win probability 0-100"`
	ExpectedCloseDate *string  `json:"expected_close_date,omitempty" jsonschema:"New expected close date"`
	Notes             *string  `json:"notes,omitempty" jsonschema:"New notes"`
}

func (h *DealHandlers) UpdateDeal(ctx context.Context, _ *mcp.CallToolRequest, input UpdateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	patch := make(map[string]any)
	if input.Title != nil {
		patch["title"] = *input.Title
	}
	if input.Value != nil {
		patch["value"] = *input.Value
	}
	if input.Stage != nil {
		patch["stage"] = *input.Stage
	}
	if input.Probability != nil {
		patch["probability"] = *input.Probability
	}
	if input.Notes != nil {
		patch["notes"] = *input.Notes
	}
	if input.ExpectedCloseDate != nil {
		date, err := parseDate(*input.ExpectedCloseDate)
		if err != nil {
			return nil, DealOutput{}, err
		}
		if date == nil {
			patch["expectedCloseDate"] = nil
		} else {
			patch["expectedCloseDate"] = date.Format(time.RFC3339)
		}
	}
	if len(patch) == 0 {
		return nil, DealOutput{}, fmt.Errorf("nothing to update")
	}

	deal, err := h.repos.Deals.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to update deal: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

type MoveDealInput struct {
	ID    int64  `json:"id" jsonschema:"Deal ID (required)"`
	Stage string `json:"stage" jsonschema:"Target stage (required)"`
}

func (h *DealHandlers) MoveDeal(ctx context.Context, _ *mcp.CallToolRequest, input MoveDealInput) (*mcp.CallToolResult, DealOutput, error) {
	deal, err := h.repos.Deals.UpdateStage(ctx, input.ID, input.Stage)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to move deal: %w", err)
	}
	return nil, dealToOutput(deal), nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", value)
}

func optionalID(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}

// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Builds pipeline-analysis and contact-summary prompts from live data
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	repos *repository.Repositories
}

func NewPromptHandlers(repos *repository.Repositories) *PromptHandlers {
	return &PromptHandlers{repos: repos}
}

// Prompts lists the prompt templates the server advertises.
func Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "deal-analysis",
			Description: "Analyze pipeline health and suggest next steps",
		},
		{
			Name:        "contact-summary",
			Description: "Summarize a contact and their deals",
			Arguments: []*mcp.PromptArgument{
				{Name: "contact_id", Description: "Contact ID", Required: true},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "deal-analysis":
		return h.getDealAnalysisPrompt(ctx)
	case "contact-summary":
		return h.getContactSummaryPrompt(ctx, request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getDealAnalysisPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	board, err := h.repos.Board(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please analyze the current deal pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Deals: %d\n", board.TotalCount()))
	promptText.WriteString(fmt.Sprintf("Total Value: %s\n", viz.FormatMoney(board.TotalValue())))
	promptText.WriteString(fmt.Sprintf("Win Rate: %d%%\n\n", board.WinRate()))
	promptText.WriteString("Pipeline by Stage:\n")
	for _, col := range board.Columns {
		promptText.WriteString(fmt.Sprintf("  - %s: %d deals, %s\n", col.Label, col.Count, viz.FormatMoney(col.TotalValue)))
	}
	if len(board.Issues) > 0 {
		promptText.WriteString(fmt.Sprintf("\n%d deals have an unknown stage and are not counted.\n", len(board.Issues)))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health and distribution")
	promptText.WriteString("\n2. Recommendations for deals that may need attention")
	promptText.WriteString("\n3. Suggestions for improving conversion rates")

	return userPrompt("Deal pipeline analysis", promptText.String()), nil
}

func (h *PromptHandlers) getContactSummaryPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	raw, ok := args["contact_id"]
	if !ok {
		return nil, fmt.Errorf("contact_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid contact_id: %s", raw)
	}

	contact, err := h.repos.Contacts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	deals, err := h.repos.Deals.GetByContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	var promptText strings.Builder
	promptText.WriteString("Please provide a comprehensive summary of this contact:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", contact.FullName()))
	promptText.WriteString(fmt.Sprintf("Email: %s\n", contact.Email))
	if contact.Phone != "" {
		promptText.WriteString(fmt.Sprintf("Phone: %s\n", contact.Phone))
	}
	if contact.Company != "" {
		promptText.WriteString(fmt.Sprintf("Company: %s\n", contact.Company))
	}
	if contact.LastContact != nil {
		promptText.WriteString(fmt.Sprintf("Last Contacted: %s\n", contact.LastContact.Format("2006-01-02")))
	}
	if len(deals) > 0 {
		promptText.WriteString("\nDeals:\n")
		for _, d := range deals {
			promptText.WriteString(fmt.Sprintf("  - %s (%s, %s)\n", d.Title, viz.StageLabel(d.Stage), viz.FormatMoney(d.Value)))
		}
	}
	if contact.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", contact.Notes))
	}

	promptText.WriteString("\nPlease analyze this contact and provide:")
	promptText.WriteString("\n1. A brief summary of their role and open opportunities")
	promptText.WriteString("\n2. Recommendations for next steps or follow-up actions")

	return userPrompt("Summary for contact: "+contact.FullName(), promptText.String()), nil
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

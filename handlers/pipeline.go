// ABOUTME: Pipeline and dashboard MCP tool handlers
// ABOUTME: Implements get_pipeline and get_dashboard over the aggregator
package handlers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/pipeline"
	"github.com/harperreed/dealdesk/repository"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PipelineHandlers struct {
	repos  *repository.Repositories
	logger *log.Logger
}

func NewPipelineHandlers(repos *repository.Repositories, logger *log.Logger) *PipelineHandlers {
	return &PipelineHandlers{repos: repos, logger: logger}
}

type GetPipelineInput struct {
	Search string `json:"search,omitempty" jsonschema:"Only include deals whose title or notes match"`
}

func (h *PipelineHandlers) GetPipeline(ctx context.Context, _ *mcp.CallToolRequest, input GetPipelineInput) (*mcp.CallToolResult, PipelineOutput, error) {
	deals, err := h.repos.Deals.GetAll(ctx)
	if err != nil {
		return nil, PipelineOutput{}, fmt.Errorf("failed to load deals: %w", err)
	}

	board := pipeline.Aggregate(filter.Deals().Apply(deals, input.Search, nil))
	pipeline.LogIssues(h.logger, board.Issues)
	return nil, boardToOutput(board), nil
}

type GetDashboardInput struct{}

func (h *PipelineHandlers) GetDashboard(ctx context.Context, _ *mcp.CallToolRequest, _ GetDashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	summary, err := h.repos.Summary(ctx)
	if err != nil {
		return nil, DashboardOutput{}, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return nil, summaryToOutput(summary), nil
}

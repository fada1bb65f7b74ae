// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	repos *repository.Repositories
}

func NewVizHandlers(repos *repository.Repositories) *VizHandlers {
	return &VizHandlers{repos: repos}
}

type GenerateGraphInput struct {
	Type      string `json:"type" jsonschema:"Graph type: pipeline or accounts"`
	CompanyID int64  `json:"company_id,omitempty" jsonschema:"Only draw this company (accounts graph)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, _ *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	generator := viz.NewGraphGenerator(h.repos)

	var data []byte
	var err error
	switch input.Type {
	case "", "pipeline":
		input.Type = "pipeline"
		data, err = generator.GeneratePipelineGraph(ctx, graphviz.XDOT)
	case "accounts":
		data, err = generator.GenerateAccountGraph(ctx, optionalID(input.CompanyID), graphviz.XDOT)
	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: pipeline, accounts)", input.Type)
	}
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	dot := string(data)
	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: strings.Count(dot, "[label="),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}

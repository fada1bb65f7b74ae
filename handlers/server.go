// ABOUTME: MCP server assembly
// ABOUTME: Registers every tool, resource and prompt over one set of repositories
package handlers

import (
	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/repository"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds the MCP server. The caller chooses the transport.
func NewServer(repos *repository.Repositories, logger *log.Logger, version string) *mcp.Server {
	contactHandlers := NewContactHandlers(repos)
	dealHandlers := NewDealHandlers(repos)
	pipelineHandlers := NewPipelineHandlers(repos, logger)
	queryHandlers := NewQueryHandlers(repos)
	vizHandlers := NewVizHandlers(repos)
	resourceHandlers := NewResourceHandlers(repos)
	promptHandlers := NewPromptHandlers(repos)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dealdesk",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name, email or company, optionally filtered by company and tag",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a new deal. " + stageHelp,
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal",
		Description: "Update fields of an existing deal; omitted fields are left unchanged",
	}, dealHandlers.UpdateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_deal",
		Description: "Move a deal to another pipeline stage. " + stageHelp,
	}, dealHandlers.MoveDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_pipeline",
		Description: "Deals grouped by stage with per-stage counts, values and the win rate",
	}, pipelineHandlers.GetPipeline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Headline CRM figures: contacts, deals, pipeline value, win rate and recent activity",
	}, pipelineHandlers.GetDashboard)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_crm",
		Description: "Universal query across contacts, companies, deals, quotes and sales orders with search, facets and a where expression",
	}, queryHandlers.QueryCRM)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Render the pipeline or account graph as Graphviz DOT",
	}, vizHandlers.GenerateGraph)

	for _, r := range Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, p := range Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}

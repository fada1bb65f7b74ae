// ABOUTME: Entry point for the dealdesk CLI, TUI and MCP server
// ABOUTME: Parses global flags, opens the configured backend and routes subcommands
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/cli"
	"github.com/harperreed/dealdesk/config"
)

const version = "0.2.0"

type command func(env *cli.Env, args []string) error

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/dealdesk/dealdesk.db)")
	backend := flag.String("backend", "", "Backend: sqlite, memory or charm (default: $DEALDESK_BACKEND or sqlite)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("dealdesk version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *backend != "" {
		if err := config.ValidateBackend(*backend); err != nil {
			log.Fatal("invalid --backend", "err", err)
		}
		cfg.Backend = *backend
	}
	logger := cfg.Logger()

	// Route to top-level command
	name := args[0]
	commandArgs := args[1:]

	var run command
	switch name {
	case "login":
		run = cli.LoginCommand
	case "logout":
		run = cli.LogoutCommand
	case "whoami":
		run = cli.WhoAmICommand
	case "crm":
		if len(commandArgs) == 0 {
			fmt.Println("Error: crm requires a subcommand")
			printUsage()
			os.Exit(1)
		}
		run = crmCommand(commandArgs[0])
		commandArgs = commandArgs[1:]
	case "pipeline":
		run = cli.PipelineCommand
	case "dashboard":
		run = cli.DashboardCommand
	case "report":
		run = cli.ReportCommand
	case "graph":
		run = cli.GraphCommand
	case "tui":
		run = cli.TUICommand
	case "web":
		run = cli.WebCommand
	case "mcp":
		run = func(env *cli.Env, _ []string) error {
			return cli.MCPCommand(env, version)
		}
	case "sync":
		run = cli.SyncCommand
	default:
		fmt.Printf("Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	env, closer, err := cli.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open backend", "backend", cfg.Backend, "err", err)
	}
	if cfg.Backend == config.BackendSQLite {
		logger.Debug("CRM database", "path", cfg.DBPath)
	}

	err = run(env, commandArgs)
	_ = closer()
	if err != nil {
		logger.Fatal("Error", "err", err)
	}
}

func crmCommand(name string) command {
	switch name {
	// Contact commands
	case "add-contact":
		return cli.AddContactCommand
	case "list-contacts":
		return cli.ListContactsCommand
	case "show-contact":
		return cli.ShowContactCommand
	case "update-contact":
		return cli.UpdateContactCommand
	case "delete-contact":
		return cli.DeleteContactCommand

	// Company commands
	case "add-company":
		return cli.AddCompanyCommand
	case "list-companies":
		return cli.ListCompaniesCommand
	case "delete-company":
		return cli.DeleteCompanyCommand

	// Deal commands
	case "add-deal":
		return cli.AddDealCommand
	case "list-deals":
		return cli.ListDealsCommand
	case "move-deal":
		return cli.MoveDealCommand
	case "delete-deal":
		return cli.DeleteDealCommand

	// Quote and order commands
	case "add-quote":
		return cli.AddQuoteCommand
	case "list-quotes":
		return cli.ListQuotesCommand
	case "delete-quote":
		return cli.DeleteQuoteCommand
	case "add-order":
		return cli.AddOrderCommand
	case "list-orders":
		return cli.ListOrdersCommand
	case "delete-order":
		return cli.DeleteOrderCommand

	// Activity commands
	case "log-activity":
		return cli.LogActivityCommand
	case "list-activities":
		return cli.ListActivitiesCommand
	}

	fmt.Printf("Unknown crm command: %s\n\n", name)
	printUsage()
	os.Exit(1)
	return nil
}

func printUsage() {
	fmt.Printf(`dealdesk v%s - Deal pipeline CRM

USAGE:
  dealdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/dealdesk/dealdesk.db)
  --backend <name>       sqlite, memory (seeded sample data) or charm

ENVIRONMENT (also read from .env):
  DEALDESK_BACKEND, DEALDESK_DB_PATH, DEALDESK_SESSION_PATH,
  DEALDESK_MOCK_LATENCY, DEALDESK_LOG_LEVEL

COMMANDS:
  login --user <name>    Start a session (required for changes)
  logout                 End the session
  whoami                 Show the logged-in user
  crm                    CRM management commands
  pipeline               Show the deal board
  dashboard              Show the dashboard summary
  report                 Show revenue and conversion reports
  graph                  Generate a Graphviz graph
  tui                    Interactive pipeline board
  web [--port 8080]      Read-only JSON API, graphs and /metrics
  mcp                    Start MCP server for Claude Desktop
  sync                   Charm backend sync (status, now, auto, wipe)

CRM COMMANDS:
  dealdesk crm add-contact     Add a new contact
    --first-name, --last-name, --email (required)
    --phone, --company, --tags <a,b>, --notes

  dealdesk crm list-contacts   List contacts
    --query <text>            Search name, email and company
    --company <name>          Filter by company (exact)
    --tags <tag>              Filter by tag
    --where <expr>            Filter expression, e.g. 'company == "Acme"'

  dealdesk crm show-contact <id>            Show a contact and its deals
  dealdesk crm update-contact [flags] <id>  Update only the given fields
    Note: flags must come before the contact ID
  dealdesk crm delete-contact <id>          Delete a contact

  dealdesk crm add-company     Add a new company
    --name (required), --industry, --size, --website, --notes
    --street, --city, --state, --country, --postal-code
  dealdesk crm list-companies  List companies (--query, --industry, --size, --where)
  dealdesk crm delete-company <id>

  dealdesk crm add-deal        Add a new deal
    --title (required), --value, --stage (default: lead), --probability
    --close-date YYYY-MM-DD, --contact <id>, --company <id>, --notes
  dealdesk crm list-deals      List deals (--query, --stage, --where)
  dealdesk crm move-deal --stage <stage> <id>
  dealdesk crm delete-deal <id>

  dealdesk crm add-quote | list-quotes | delete-quote <id>
  dealdesk crm add-order | list-orders | delete-order <id>

  dealdesk crm log-activity    Log a call, email, meeting, note or task
    --type, --description, --contact <id>, --deal <id>, --date YYYY-MM-DD
  dealdesk crm list-activities [--limit n]

VIEWS:
  dealdesk pipeline [--search <text>] [--json]
  dealdesk dashboard [--json]
  dealdesk report [--json]
  dealdesk graph [--kind pipeline|accounts] [--company <id>] [--format dot|svg|png] [--output <file>]

STAGES:
  lead, qualified, proposal, negotiation, closed-won, closed-lost

EXAMPLES:
  # Try it with sample data
  dealdesk --backend memory pipeline

  # Log in, then add a deal
  dealdesk login --user dana
  dealdesk crm add-deal --title "Enterprise License" --value 50000 --company 1

  # Deals over $10k still in play
  dealdesk crm list-deals --where 'value > 10000 && stage != "closed-lost"'

`, version)
}

// ABOUTME: Pipeline, dashboard, report and graph commands
// ABOUTME: Render pipeline aggregates as text, JSON or Graphviz output
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/pipeline"
	"github.com/harperreed/dealdesk/viz"
)

// PipelineCommand shows the deal board, optionally narrowed by a search term.
func PipelineCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("pipeline", flag.ExitOnError)
	search := fs.String("search", "", "Only include deals whose title or notes match")
	asJSON := fs.Bool("json", false, "Print the board as JSON")
	_ = fs.Parse(args)

	deals, err := env.Repos.Deals.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load deals: %w", err)
	}

	board := pipeline.Aggregate(filter.Deals().Apply(deals, *search, nil))
	pipeline.LogIssues(env.Logger, board.Issues)

	if *asJSON {
		return env.writeJSON(board)
	}
	_, _ = fmt.Fprint(env.Out, viz.RenderBoard(board))
	return nil
}

// DashboardCommand shows the dashboard summary.
func DashboardCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the summary as JSON")
	_ = fs.Parse(args)

	summary, err := env.Repos.Summary(context.Background())
	if err != nil {
		return fmt.Errorf("failed to generate dashboard: %w", err)
	}

	if *asJSON {
		return env.writeJSON(summary)
	}
	_, _ = fmt.Fprint(env.Out, viz.RenderDashboard(summary))
	return nil
}

// ReportCommand shows revenue and conversion for the trailing months.
func ReportCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	_ = fs.Parse(args)

	report, err := env.Repos.Report(context.Background(), env.Now())
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if *asJSON {
		return env.writeJSON(report)
	}
	_, _ = fmt.Fprint(env.Out, viz.RenderReport(report))
	return nil
}

// GraphCommand renders the pipeline or account graph.
func GraphCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	format := fs.String("format", "dot", "Output format: dot, svg or png")
	kind := fs.String("kind", "pipeline", "Graph kind: pipeline or accounts")
	company := fs.Int64("company", 0, "Only draw this company (accounts graph)")
	_ = fs.Parse(args)

	gvFormat, err := viz.ParseFormat(*format)
	if err != nil {
		return err
	}
	if *output == "" && *format == "png" {
		return fmt.Errorf("--output is required for png")
	}

	generator := viz.NewGraphGenerator(env.Repos)
	ctx := context.Background()

	var data []byte
	switch *kind {
	case "pipeline":
		data, err = generator.GeneratePipelineGraph(ctx, gvFormat)
	case "accounts":
		data, err = generator.GenerateAccountGraph(ctx, optionalID(*company), gvFormat)
	default:
		return fmt.Errorf("unknown graph kind: %s", *kind)
	}
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0644); err != nil {
			return fmt.Errorf("failed to write graph: %w", err)
		}
		env.printf("✓ Graph written to %s\n", *output)
		return nil
	}

	_, _ = env.Out.Write(data)
	return nil
}

func (e *Env) writeJSON(v any) error {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

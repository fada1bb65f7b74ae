// ABOUTME: Deal CLI commands
// ABOUTME: Add, list, move between stages and delete deals
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/viz"
)

// AddDealCommand adds a new deal.
func AddDealCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	title := fs.String("title", "", "Deal title (required)")
	value := fs.Float64("value", 0, "Deal value in dollars")
	stage := fs.String("stage", models.StageLead, "Stage")
	probability := fs.Int("probability", 0, "Win probability, 0-100")
	closeDate := fs.String("close-date", "", "Expected close date (YYYY-MM-DD)")
	contactID := fs.Int64("contact", 0, "Contact ID")
	companyID := fs.Int64("company", 0, "Company ID")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	if _, err := env.requireSession(); err != nil {
		return err
	}

	expected, err := parseDate(*closeDate)
	if err != nil {
		return err
	}

	deal, err := env.Repos.Deals.Create(context.Background(), models.Deal{
		Title:             *title,
		Value:             *value,
		Stage:             *stage,
		Probability:       *probability,
		ExpectedCloseDate: expected,
		ContactID:         optionalID(*contactID),
		CompanyID:         optionalID(*companyID),
		Notes:             *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	env.printf("✓ Deal created: %s (ID: %d)\n", deal.Title, deal.ID)
	env.printf("  Stage: %s\n", viz.StageLabel(deal.Stage))
	env.printf("  Value: %s\n", viz.FormatMoney(deal.Value))
	return nil
}

// ListDealsCommand lists deals.
func ListDealsCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	filters := addListFlags(fs, "stage")
	_ = fs.Parse(args)

	all, err := env.Repos.Deals.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}
	deals, err := applyList(all, filter.Deals(), filters)
	if err != nil {
		return err
	}

	if len(deals) == 0 {
		env.println("No deals found")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tSTAGE\tVALUE\tPROB\tCLOSE")
	_, _ = fmt.Fprintln(w, "--\t-----\t-----\t-----\t----\t-----")
	for _, d := range deals {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d%%\t%s\n",
			d.ID, d.Title, viz.StageLabel(d.Stage), viz.FormatMoney(d.Value), d.Probability, formatDate(d.ExpectedCloseDate))
	}
	_ = w.Flush()

	env.printf("\nTotal: %d deal(s)\n", len(deals))
	return nil
}

// MoveDealCommand moves a deal to another stage.
func MoveDealCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("move-deal", flag.ExitOnError)
	stage := fs.String("stage", "", "Target stage (required)")
	_ = fs.Parse(args)

	id, err := parseID("deal", fs.Args())
	if err != nil {
		return err
	}
	if *stage == "" {
		return fmt.Errorf("--stage is required")
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	deal, err := env.Repos.Deals.UpdateStage(context.Background(), id, *stage)
	if err != nil {
		return fmt.Errorf("failed to move deal: %w", err)
	}

	env.printf("✓ Deal moved: %s → %s\n", deal.Title, viz.StageLabel(deal.Stage))
	return nil
}

// DeleteDealCommand deletes a deal.
func DeleteDealCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("delete-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID("deal", fs.Args())
	if err != nil {
		return err
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	if _, err := env.Repos.Deals.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	env.printf("✓ Deal deleted: %d\n", id)
	return nil
}

// ABOUTME: Quote CLI commands
// ABOUTME: Add, list and delete quotes
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
)

// AddQuoteCommand adds a new quote. Status defaults to Draft.
func AddQuoteCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("add-quote", flag.ExitOnError)
	name := fs.String("name", "", "Quote name (required)")
	company := fs.String("company", "", "Company name")
	contact := fs.String("contact", "", "Contact name")
	deal := fs.String("deal", "", "Deal title")
	status := fs.String("status", "", "Draft, Sent, Accepted, Declined or Expired")
	delivery := fs.String("delivery", "", "Delivery method")
	quoteDate := fs.String("date", "", "Quote date (YYYY-MM-DD)")
	expires := fs.String("expires", "", "Expiry date (YYYY-MM-DD)")
	tags := fs.String("tags", "", "Comma-separated tags")
	_ = fs.Parse(args)

	if _, err := env.requireSession(); err != nil {
		return err
	}

	date, err := parseDate(*quoteDate)
	if err != nil {
		return err
	}
	expiresOn, err := parseDate(*expires)
	if err != nil {
		return err
	}

	quote, err := env.Repos.Quotes.Create(context.Background(), models.Quote{
		Name:           *name,
		Company:        *company,
		Contact:        *contact,
		Deal:           *deal,
		Status:         *status,
		DeliveryMethod: *delivery,
		QuoteDate:      date,
		ExpiresOn:      expiresOn,
		Tags:           splitTags(*tags),
	})
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}

	env.printf("✓ Quote created: %s (ID: %d, %s)\n", quote.Name, quote.ID, quote.Status)
	return nil
}

// ListQuotesCommand lists quotes.
func ListQuotesCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("list-quotes", flag.ExitOnError)
	filters := addListFlags(fs, "status")
	_ = fs.Parse(args)

	all, err := env.Repos.Quotes.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list quotes: %w", err)
	}
	quotes, err := applyList(all, filter.Quotes(), filters)
	if err != nil {
		return err
	}

	if len(quotes) == 0 {
		env.println("No quotes found")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tCONTACT\tSTATUS\tDATE\tEXPIRES")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t-------\t------\t----\t-------")
	for _, q := range quotes {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			q.ID, q.Name, dash(q.Company), dash(q.Contact), q.Status, formatDate(q.QuoteDate), formatDate(q.ExpiresOn))
	}
	_ = w.Flush()

	env.printf("\nTotal: %d quote(s)\n", len(quotes))
	return nil
}

// DeleteQuoteCommand deletes a quote.
func DeleteQuoteCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("delete-quote", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID("quote", fs.Args())
	if err != nil {
		return err
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	if _, err := env.Repos.Quotes.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	env.printf("✓ Quote deleted: %d\n", id)
	return nil
}

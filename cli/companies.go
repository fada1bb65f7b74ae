// ABOUTME: Company CLI commands
// ABOUTME: Human-friendly commands for managing companies
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
)

// AddCompanyCommand adds a new company.
func AddCompanyCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("add-company", flag.ExitOnError)
	name := fs.String("name", "", "Company name (required)")
	industry := fs.String("industry", "", "Industry")
	size := fs.String("size", "", "Size: Small, Medium, Large or Enterprise")
	website := fs.String("website", "", "Website URL")
	street := fs.String("street", "", "Street address")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State or region")
	country := fs.String("country", "", "Country")
	postalCode := fs.String("postal-code", "", "Postal code")
	notes := fs.String("notes", "", "Notes about the company")
	_ = fs.Parse(args)

	if _, err := env.requireSession(); err != nil {
		return err
	}

	company := models.Company{
		Name:     *name,
		Industry: *industry,
		Size:     *size,
		Website:  *website,
		Notes:    *notes,
	}
	addr := &models.Address{Street: *street, City: *city, State: *state, Country: *country, PostalCode: *postalCode}
	if addr.String() != "" {
		company.Address = addr
	}

	created, err := env.Repos.Companies.Create(context.Background(), company)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	env.printf("✓ Company created: %s (ID: %d)\n", created.Name, created.ID)
	if created.Industry != "" {
		env.printf("  Industry: %s\n", created.Industry)
	}
	if created.Address != nil {
		env.printf("  Address: %s\n", created.Address)
	}
	return nil
}

// ListCompaniesCommand lists companies.
func ListCompaniesCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("list-companies", flag.ExitOnError)
	filters := addListFlags(fs, "industry", "size")
	_ = fs.Parse(args)

	all, err := env.Repos.Companies.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}
	companies, err := applyList(all, filter.Companies(), filters)
	if err != nil {
		return err
	}

	if len(companies) == 0 {
		env.println("No companies found")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tINDUSTRY\tSIZE\tWEBSITE")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t----\t-------")
	for _, c := range companies {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, dash(c.Industry), dash(c.Size), dash(c.Website))
	}
	_ = w.Flush()

	env.printf("\nTotal: %d company(ies)\n", len(companies))
	return nil
}

// DeleteCompanyCommand deletes a company.
func DeleteCompanyCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("delete-company", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID("company", fs.Args())
	if err != nil {
		return err
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	if _, err := env.Repos.Companies.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	env.printf("✓ Company deleted: %d\n", id)
	return nil
}

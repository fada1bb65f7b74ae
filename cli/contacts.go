// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
)

// splitTags parses a comma-separated tag list.
func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// AddContactCommand adds a new contact.
func AddContactCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	firstName := fs.String("first-name", "", "First name (required)")
	lastName := fs.String("last-name", "", "Last name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	tags := fs.String("tags", "", "Comma-separated tags")
	notes := fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	if _, err := env.requireSession(); err != nil {
		return err
	}

	contact, err := env.Repos.Contacts.Create(context.Background(), models.Contact{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Phone:     *phone,
		Company:   *company,
		Tags:      splitTags(*tags),
		Notes:     *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	env.printf("✓ Contact created: %s (ID: %d)\n", contact.FullName(), contact.ID)
	env.printf("  Email: %s\n", contact.Email)
	if contact.Phone != "" {
		env.printf("  Phone: %s\n", contact.Phone)
	}
	if contact.Company != "" {
		env.printf("  Company: %s\n", contact.Company)
	}
	return nil
}

// ListContactsCommand lists contacts.
func ListContactsCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	filters := addListFlags(fs, "company", "tags")
	_ = fs.Parse(args)

	all, err := env.Repos.Contacts.GetAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}
	contacts, err := applyList(all, filter.Contacts(), filters)
	if err != nil {
		return err
	}

	if len(contacts) == 0 {
		env.println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY\tTAGS")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t-----\t-------\t----")
	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.FullName(), c.Email, dash(c.Phone), dash(c.Company), dash(strings.Join(c.TagSet(), ",")))
	}
	_ = w.Flush()

	env.printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// ShowContactCommand prints one contact with its deals.
func ShowContactCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("show-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID("contact", fs.Args())
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, err := env.Repos.Contacts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	deals, err := env.Repos.Deals.GetByContact(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load deals: %w", err)
	}

	env.printf("%s (ID: %d)\n", c.FullName(), c.ID)
	env.printf("  Email:        %s\n", c.Email)
	env.printf("  Phone:        %s\n", dash(c.Phone))
	env.printf("  Company:      %s\n", dash(c.Company))
	env.printf("  Tags:         %s\n", dash(strings.Join(c.TagSet(), ", ")))
	env.printf("  Created:      %s\n", formatDate(c.CreatedAt))
	env.printf("  Last contact: %s\n", formatDate(c.LastContact))
	if c.Notes != "" {
		env.printf("  Notes:        %s\n", c.Notes)
	}

	if len(deals) > 0 {
		env.println("\nDeals:")
		for _, d := range deals {
			env.printf("  #%d %s (%s, $%.2f)\n", d.ID, d.Title, d.Stage, d.Value)
		}
	}
	return nil
}

// UpdateContactCommand updates an existing contact. Only flags that are set
// are changed.
func UpdateContactCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	fs.String("first-name", "", "First name")
	fs.String("last-name", "", "Last name")
	fs.String("email", "", "Email address")
	fs.String("phone", "", "Phone number")
	fs.String("company", "", "Company name")
	fs.String("tags", "", "Comma-separated tags (replaces existing)")
	fs.String("notes", "", "Notes about the contact")
	_ = fs.Parse(args)

	id, err := parseID("contact", fs.Args())
	if err != nil {
		return err
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	keys := map[string]string{
		"first-name": "firstName",
		"last-name":  "lastName",
		"email":      "email",
		"phone":      "phone",
		"company":    "company",
		"notes":      "notes",
	}
	patch := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "tags" {
			patch["tags"] = splitTags(f.Value.String())
			return
		}
		patch[keys[f.Name]] = f.Value.String()
	})
	if len(patch) == 0 {
		return fmt.Errorf("nothing to update")
	}

	contact, err := env.Repos.Contacts.Update(context.Background(), id, patch)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	env.printf("✓ Contact updated: %s (ID: %d)\n", contact.FullName(), contact.ID)
	return nil
}

// DeleteContactCommand deletes a contact.
func DeleteContactCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	id, err := parseID("contact", fs.Args())
	if err != nil {
		return err
	}
	if _, err := env.requireSession(); err != nil {
		return err
	}

	if _, err := env.Repos.Contacts.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	env.printf("✓ Contact deleted: %d\n", id)
	return nil
}

// ABOUTME: Activity logging CLI commands
// ABOUTME: Logs calls, emails and meetings and bumps the contact's last-contact date
package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harperreed/dealdesk/models"
)

// LogActivityCommand records an activity. When it references a contact,
// that contact's lastContact moves to the activity date.
func LogActivityCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("log-activity", flag.ExitOnError)
	kind := fs.String("type", models.ActivityNote, "call, email, meeting, note or task")
	description := fs.String("description", "", "What happened")
	contactID := fs.Int64("contact", 0, "Contact ID")
	dealID := fs.Int64("deal", 0, "Deal ID")
	date := fs.String("date", "", "Date (YYYY-MM-DD, default now)")
	_ = fs.Parse(args)

	if _, err := env.requireSession(); err != nil {
		return err
	}

	when, err := parseDate(*date)
	if err != nil {
		return err
	}

	ctx := context.Background()
	contact := optionalID(*contactID)
	if contact != nil {
		if _, err := env.Repos.Contacts.GetByID(ctx, *contact); err != nil {
			return err
		}
	}
	deal := optionalID(*dealID)
	if deal != nil {
		if _, err := env.Repos.Deals.GetByID(ctx, *deal); err != nil {
			return err
		}
	}

	activity, err := env.Repos.Activities.Create(ctx, models.Activity{
		Type:        *kind,
		Description: *description,
		ContactID:   contact,
		DealID:      deal,
		Date:        when,
	})
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	if contact != nil {
		if _, err := env.Repos.Contacts.Update(ctx, *contact, map[string]any{
			"lastContact": activity.Date.Format(time.RFC3339Nano),
		}); err != nil {
			return fmt.Errorf("failed to update contact: %w", err)
		}
	}

	env.printf("✓ Logged %s (ID: %d) on %s\n", activity.Type, activity.ID, formatDate(activity.Date))
	return nil
}

// ListActivitiesCommand lists the most recent activities.
func ListActivitiesCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("list-activities", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Maximum number of activities to show")
	_ = fs.Parse(args)

	activities, err := env.Repos.Activities.Recent(context.Background(), *limit)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}

	if len(activities) == 0 {
		env.println("No activities found")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tTYPE\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t-----------")
	for _, a := range activities {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, formatDate(a.Date), a.Type, dash(a.Description))
	}
	_ = w.Flush()
	return nil
}

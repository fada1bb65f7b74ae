// ABOUTME: Fetch-then-transform helpers shared by every presentation surface
// ABOUTME: Loads collections and hands them to the pure pipeline functions

package repository

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/pipeline"
)

// Board fetches all deals and aggregates them. Data-quality issues are
// logged and returned on the board.
func (r *Repositories) Board(ctx context.Context, logger *log.Logger) (pipeline.Board, error) {
	deals, err := r.Deals.GetAll(ctx)
	if err != nil {
		return pipeline.Board{}, err
	}
	board := pipeline.Aggregate(deals)
	pipeline.LogIssues(logger, board.Issues)
	return board, nil
}

// Summary fetches contacts, deals and activities for the dashboard.
func (r *Repositories) Summary(ctx context.Context) (pipeline.Summary, error) {
	contacts, err := r.Contacts.GetAll(ctx)
	if err != nil {
		return pipeline.Summary{}, err
	}
	deals, err := r.Deals.GetAll(ctx)
	if err != nil {
		return pipeline.Summary{}, err
	}
	activities, err := r.Activities.GetAll(ctx)
	if err != nil {
		return pipeline.Summary{}, err
	}
	return pipeline.Summarize(contacts, deals, activities), nil
}

// Report fetches deals and activities and builds the report as of now.
func (r *Repositories) Report(ctx context.Context, now time.Time) (pipeline.Report, error) {
	deals, err := r.Deals.GetAll(ctx)
	if err != nil {
		return pipeline.Report{}, err
	}
	activities, err := r.Activities.GetAll(ctx)
	if err != nil {
		return pipeline.Report{}, err
	}
	return pipeline.BuildReport(deals, activities, now), nil
}

// ABOUTME: Entity repositories with entity-specific lookups
// ABOUTME: Bundles one repository per collection behind a single Repositories value

package repository

import (
	"context"
	"strings"

	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/pipeline"
	"github.com/harperreed/dealdesk/schema"
)

type ContactRepository struct {
	*Repository[models.Contact]
}

// GetByCompany returns contacts whose company matches, ignoring case.
func (r *ContactRepository) GetByCompany(ctx context.Context, company string) ([]models.Contact, error) {
	return r.Where(ctx, func(c models.Contact) bool {
		return strings.EqualFold(c.Company, company)
	})
}

type CompanyRepository struct {
	*Repository[models.Company]
}

func (r *CompanyRepository) GetByIndustry(ctx context.Context, industry string) ([]models.Company, error) {
	return r.Where(ctx, func(c models.Company) bool {
		return strings.EqualFold(c.Industry, industry)
	})
}

func (r *CompanyRepository) GetBySize(ctx context.Context, size string) ([]models.Company, error) {
	return r.Where(ctx, func(c models.Company) bool {
		return c.Size == size
	})
}

type DealRepository struct {
	*Repository[models.Deal]
}

func (r *DealRepository) GetByStage(ctx context.Context, stage string) ([]models.Deal, error) {
	return r.Where(ctx, func(d models.Deal) bool {
		return d.Stage == stage
	})
}

func (r *DealRepository) GetByContact(ctx context.Context, contactID int64) ([]models.Deal, error) {
	return r.Where(ctx, func(d models.Deal) bool {
		return d.ContactID != nil && *d.ContactID == contactID
	})
}

// UpdateStage moves a deal to stage. Unknown stages fail validation
// without touching the store.
func (r *DealRepository) UpdateStage(ctx context.Context, id int64, stage string) (models.Deal, error) {
	if !models.IsValidStage(stage) {
		return models.Deal{}, &models.ValidationError{Violations: map[string]string{
			"stage": "must be one of " + strings.Join(models.StageKeys(), ", "),
		}}
	}
	return r.Update(ctx, id, map[string]any{"stage": stage})
}

type QuoteRepository struct {
	*Repository[models.Quote]
}

func (r *QuoteRepository) GetByStatus(ctx context.Context, status string) ([]models.Quote, error) {
	return r.Where(ctx, func(q models.Quote) bool {
		return q.Status == status
	})
}

type SalesOrderRepository struct {
	*Repository[models.SalesOrder]
}

func (r *SalesOrderRepository) GetByStatus(ctx context.Context, status string) ([]models.SalesOrder, error) {
	return r.Where(ctx, func(o models.SalesOrder) bool {
		return o.Status == status
	})
}

type ActivityRepository struct {
	*Repository[models.Activity]
}

// Recent returns up to n activities, newest first.
func (r *ActivityRepository) Recent(ctx context.Context, n int) ([]models.Activity, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.RecentActivities(all, n), nil
}

// Repositories holds one repository per collection.
type Repositories struct {
	Contacts    *ContactRepository
	Companies   *CompanyRepository
	Deals       *DealRepository
	Quotes      *QuoteRepository
	SalesOrders *SalesOrderRepository
	Activities  *ActivityRepository
}

// StoreFactory opens the store serving one collection.
type StoreFactory func(entity schema.Entity) db.Store

// Open builds every repository from stores returned by open.
func Open(open StoreFactory) *Repositories {
	return &Repositories{
		Contacts:    &ContactRepository{New[models.Contact](open(schema.Contacts))},
		Companies:   &CompanyRepository{New[models.Company](open(schema.Companies))},
		Deals:       &DealRepository{New[models.Deal](open(schema.Deals))},
		Quotes:      &QuoteRepository{New[models.Quote](open(schema.Quotes))},
		SalesOrders: &SalesOrderRepository{New[models.SalesOrder](open(schema.SalesOrders))},
		Activities:  &ActivityRepository{New[models.Activity](open(schema.Activities))},
	}
}

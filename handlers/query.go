// ABOUTME: Universal query tool handler
// ABOUTME: Search, facet and expression filtering across every CRM collection
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/repository"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type QueryHandlers struct {
	repos *repository.Repositories
}

func NewQueryHandlers(repos *repository.Repositories) *QueryHandlers {
	return &QueryHandlers{repos: repos}
}

type QueryCRMInput struct {
	EntityType string            `json:"entity_type" jsonschema:"Type of entity to query (contact, company, deal, quote, sales_order)"`
	Query      string            `json:"query,omitempty" jsonschema:"Case-insensitive search term"`
	Facets     map[string]string `json:"facets,omitempty" jsonschema:"Exact-match facet filters, e.g. {\"stage\": \"lead\"}"`
	Where      string            `json:"where,omitempty" jsonschema:"Boolean expression over record fields, e.g. value > 1000"`
	Limit      int               `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type QueryCRMOutput struct {
	EntityType string `json:"entity_type"`
	Results    []any  `json:"results"`
	Count      int    `json:"count"`
}

func (h *QueryHandlers) QueryCRM(ctx context.Context, _ *mcp.CallToolRequest, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	where, err := filter.CompileWhere(input.Where)
	if err != nil {
		return nil, QueryCRMOutput{}, err
	}

	var results []any
	switch input.EntityType {
	case "contact":
		results, err = query(ctx, h.repos.Contacts.GetAll, filter.Contacts(), input, where)
	case "company":
		results, err = query(ctx, h.repos.Companies.GetAll, filter.Companies(), input, where)
	case "deal":
		results, err = query(ctx, h.repos.Deals.GetAll, filter.Deals(), input, where)
	case "quote":
		results, err = query(ctx, h.repos.Quotes.GetAll, filter.Quotes(), input, where)
	case "sales_order":
		results, err = query(ctx, h.repos.SalesOrders.GetAll, filter.SalesOrders(), input, where)
	default:
		return nil, QueryCRMOutput{}, fmt.Errorf("invalid entity_type: %s (valid: contact, company, deal, quote, sales_order)", input.EntityType)
	}
	if err != nil {
		return nil, QueryCRMOutput{}, err
	}

	return nil, QueryCRMOutput{
		EntityType: input.EntityType,
		Results:    results,
		Count:      len(results),
	}, nil
}

func query[T interface{ RecordID() int64 }](ctx context.Context, fetch func(context.Context) ([]T, error),
	engine *filter.Engine[T], input QueryCRMInput, where *filter.Where) ([]any, error) {
	all, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", input.EntityType, err)
	}

	matched, err := filter.ApplyWhere(engine.Apply(all, input.Query, input.Facets), where)
	if err != nil {
		return nil, err
	}
	matched = limit(matched, input.Limit)

	results := make([]any, len(matched))
	for i, item := range matched {
		results[i] = item
	}
	return results, nil
}

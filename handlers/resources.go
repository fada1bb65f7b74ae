// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Read-only JSON views of collections, single records and the pipeline
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/dealdesk/repository"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// URIScheme prefixes every resource URI.
const URIScheme = "dealdesk://"

type ResourceHandlers struct {
	repos *repository.Repositories
}

func NewResourceHandlers(repos *repository.Repositories) *ResourceHandlers {
	return &ResourceHandlers{repos: repos}
}

// ReadResource serves dealdesk://<collection>[/<id>], dealdesk://pipeline
// and dealdesk://dashboard.
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, URIScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", URIScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, URIScheme), "/")
	var id int64
	if len(parts) > 1 {
		parsed, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ID in %s", uri)
		}
		id = parsed
	}

	var v any
	var err error
	switch parts[0] {
	case "contacts":
		v, err = readOne(ctx, id, h.repos.Contacts.GetAll, h.repos.Contacts.GetByID)
	case "companies":
		v, err = readOne(ctx, id, h.repos.Companies.GetAll, h.repos.Companies.GetByID)
	case "deals":
		v, err = readOne(ctx, id, h.repos.Deals.GetAll, h.repos.Deals.GetByID)
	case "quotes":
		v, err = readOne(ctx, id, h.repos.Quotes.GetAll, h.repos.Quotes.GetByID)
	case "sales-orders":
		v, err = readOne(ctx, id, h.repos.SalesOrders.GetAll, h.repos.SalesOrders.GetByID)
	case "pipeline":
		v, err = h.repos.Board(ctx, nil)
	case "dashboard":
		v, err = h.repos.Summary(ctx)
	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

// readOne returns the whole collection when id is zero, else one record.
func readOne[T any](ctx context.Context, id int64,
	all func(context.Context) ([]T, error), one func(context.Context, int64) (T, error)) (any, error) {
	if id == 0 {
		return all(ctx)
	}
	return one(ctx, id)
}

// Resources lists the static resources the server advertises.
func Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: URIScheme + "contacts", Name: "contacts", Description: "All contacts", MIMEType: "application/json"},
		{URI: URIScheme + "companies", Name: "companies", Description: "All companies", MIMEType: "application/json"},
		{URI: URIScheme + "deals", Name: "deals", Description: "All deals", MIMEType: "application/json"},
		{URI: URIScheme + "quotes", Name: "quotes", Description: "All quotes", MIMEType: "application/json"},
		{URI: URIScheme + "sales-orders", Name: "sales-orders", Description: "All sales orders", MIMEType: "application/json"},
		{URI: URIScheme + "pipeline", Name: "pipeline", Description: "Deals grouped by stage", MIMEType: "application/json"},
		{URI: URIScheme + "dashboard", Name: "dashboard", Description: "Dashboard summary", MIMEType: "application/json"},
	}
}

// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements find_contacts and add_contact tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/repository"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	repos *repository.Repositories
}

func NewContactHandlers(repos *repository.Repositories) *ContactHandlers {
	return &ContactHandlers{repos: repos}
}

type AddContactInput struct {
	FirstName string   `json:"first_name" jsonschema:"First name (required)"`
	LastName  string   `json:"last_name" jsonschema:"Last name (required)"`
	Email     string   `json:"email" jsonschema:"Email address (required)"`
	Phone     string   `json:"phone,omitempty" jsonschema:"Phone number"`
	Company   string   `json:"company,omitempty" jsonschema:"Company name"`
	Tags      []string `json:"tags,omitempty" jsonschema:"Tags"`
	Notes     string   `json:"notes,omitempty" jsonschema:"Notes about the contact"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, _ *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	contact, err := h.repos.Contacts.Create(ctx, models.Contact{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     input.Phone,
		Company:   input.Company,
		Tags:      input.Tags,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query   string `json:"query,omitempty" jsonschema:"Search term matched against first name, last name, email and company"`
	Company string `json:"company,omitempty" jsonschema:"Exact company name"`
	Tag     string `json:"tag,omitempty" jsonschema:"Only contacts carrying this tag"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

func (h *ContactHandlers) FindContacts(ctx context.Context, _ *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	all, err := h.repos.Contacts.GetAll(ctx)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	contacts := filter.Contacts().Apply(all, input.Query, map[string]string{
		"company": input.Company,
		"tags":    input.Tag,
	})
	contacts = limit(contacts, input.Limit)

	out := FindContactsOutput{Contacts: make([]ContactOutput, len(contacts)), Count: len(contacts)}
	for i, c := range contacts {
		out.Contacts[i] = contactToOutput(c)
	}
	return nil, out, nil
}

// limit truncates items to n, defaulting to 10 when n is not positive.
func limit[T any](items []T, n int) []T {
	if n <= 0 {
		n = 10
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

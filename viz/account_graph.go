// ABOUTME: Graphviz rendering of accounts: companies, their contacts and deals
// ABOUTME: Contacts attach to companies by name, deals by company Id
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// GenerateAccountGraph renders companies with their contacts and deals.
// When companyID is set only that company's account is drawn.
func (g *GraphGenerator) GenerateAccountGraph(ctx context.Context, companyID *int64, format graphviz.Format) ([]byte, error) {
	companies, err := g.repos.Companies.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}
	contacts, err := g.repos.Contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	deals, err := g.repos.Deals.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLayout("dot")
	graph.SetRankDir(cgraph.LRRank)

	found := false
	for _, company := range companies {
		if companyID != nil && company.ID != *companyID {
			continue
		}
		found = true

		companyNode, err := graph.CreateNodeByName(fmt.Sprintf("company_%d", company.ID))
		if err != nil {
			return nil, fmt.Errorf("failed to create company node: %w", err)
		}
		companyNode.SetLabel(fmt.Sprintf("%s\n(%s)", company.Name, company.Industry))
		companyNode.SetShape("box")
		companyNode.SetStyle("filled")
		companyNode.SetFillColor("lightblue")

		// Contacts reference their company by name.
		for _, contact := range contacts {
			if !strings.EqualFold(contact.Company, company.Name) {
				continue
			}
			node, err := graph.CreateNodeByName(fmt.Sprintf("contact_%d", contact.ID))
			if err != nil {
				return nil, fmt.Errorf("failed to create contact node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s", contact.FullName(), contact.Email))
			node.SetShape("ellipse")

			edge, err := graph.CreateEdgeByName("works_at", node, companyNode)
			if err != nil {
				return nil, fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("works at")
			edge.SetStyle("dashed")
		}

		for _, deal := range deals {
			if deal.CompanyID == nil || *deal.CompanyID != company.ID {
				continue
			}
			node, err := graph.CreateNodeByName(fmt.Sprintf("deal_%d", deal.ID))
			if err != nil {
				return nil, fmt.Errorf("failed to create deal node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s\n(%s)", deal.Title, FormatMoney(deal.Value), StageLabel(deal.Stage)))
			node.SetShape("diamond")

			edge, err := graph.CreateEdgeByName("deal_with", companyNode, node)
			if err != nil {
				return nil, fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("deal")
		}
	}

	if companyID != nil && !found {
		return nil, fmt.Errorf("company with ID %d not found", *companyID)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.Bytes(), nil
}

// ABOUTME: Graphviz rendering of the deal pipeline
// ABOUTME: Stages form a chain; each deal hangs off its stage and links to its contact
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/pipeline"
	"github.com/harperreed/dealdesk/repository"
)

// GraphGenerator renders CRM collections as Graphviz graphs.
type GraphGenerator struct {
	repos *repository.Repositories
}

func NewGraphGenerator(repos *repository.Repositories) *GraphGenerator {
	return &GraphGenerator{repos: repos}
}

// ParseFormat maps a format name to a Graphviz output format.
func ParseFormat(name string) (graphviz.Format, error) {
	switch name {
	case "", "dot":
		return graphviz.XDOT, nil
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	default:
		return "", fmt.Errorf("unknown graph format %q (use dot, svg or png)", name)
	}
}

// GeneratePipelineGraph renders the pipeline board in the given format.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context, format graphviz.Format) ([]byte, error) {
	board, err := g.repos.Board(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	contacts, err := g.repos.Contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel("Deal Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	contactNames := make(map[int64]string, len(contacts))
	for _, c := range contacts {
		contactNames[c.ID] = c.FullName()
	}

	var previous *cgraph.Node
	contactNodes := make(map[int64]*cgraph.Node)
	for _, col := range board.Columns {
		stageNode, err := graph.CreateNodeByName("stage_" + col.Stage)
		if err != nil {
			return nil, fmt.Errorf("failed to create stage node: %w", err)
		}
		stageNode.SetLabel(fmt.Sprintf("%s\n%d deals\n%s", col.Label, col.Count, FormatMoney(col.TotalValue)))
		stageNode.SetShape("box")
		stageNode.SetStyle("filled")
		stageNode.SetFillColor(stageColor(col.Stage))

		if previous != nil {
			edge, err := graph.CreateEdgeByName("next", previous, stageNode)
			if err != nil {
				return nil, fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetStyle("bold")
		}
		previous = stageNode

		if err := addDeals(graph, stageNode, col, contactNames, contactNodes); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.Bytes(), nil
}

func addDeals(graph *cgraph.Graph, stageNode *cgraph.Node, col pipeline.Column,
	contactNames map[int64]string, contactNodes map[int64]*cgraph.Node) error {
	for _, deal := range col.Deals {
		node, err := graph.CreateNodeByName(fmt.Sprintf("deal_%d", deal.ID))
		if err != nil {
			return fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", deal.Title, FormatMoney(deal.Value)))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		edge, err := graph.CreateEdgeByName("in_stage", stageNode, node)
		if err != nil {
			return fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetStyle("dashed")

		if deal.ContactID == nil {
			continue
		}
		name, ok := contactNames[*deal.ContactID]
		if !ok {
			continue
		}
		contactNode, ok := contactNodes[*deal.ContactID]
		if !ok {
			contactNode, err = graph.CreateNodeByName(fmt.Sprintf("contact_%d", *deal.ContactID))
			if err != nil {
				return fmt.Errorf("failed to create contact node: %w", err)
			}
			contactNode.SetLabel(name)
			contactNode.SetShape("ellipse")
			contactNode.SetStyle("filled")
			contactNode.SetFillColor("lightgreen")
			contactNodes[*deal.ContactID] = contactNode
		}

		edge, err = graph.CreateEdgeByName("contact_for", contactNode, node)
		if err != nil {
			return fmt.Errorf("failed to create edge: %w", err)
		}
		edge.SetStyle("dotted")
	}
	return nil
}

func stageColor(stage string) string {
	switch stage {
	case models.StageClosedWon:
		return "palegreen"
	case models.StageClosedLost:
		return "lightpink"
	default:
		return "lightblue"
	}
}

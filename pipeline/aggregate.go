// ABOUTME: Pipeline aggregation of deals into ordered stage columns
// ABOUTME: Pure functions: counts, value totals, win rate and data-quality issues

package pipeline

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/models"
)

// Column is one stage bucket of the board.
type Column struct {
	Stage      string        `json:"stageKey"`
	Label      string        `json:"label"`
	Deals      []models.Deal `json:"deals"`
	Count      int           `json:"count"`
	TotalValue float64       `json:"totalValue"`
}

// Issue is an advisory data-quality finding. Issues never fail aggregation.
type Issue struct {
	DealID  int64  `json:"dealId"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Board is the staged view of a deal collection.
type Board struct {
	Columns  []Column      `json:"columns"`
	Excluded []models.Deal `json:"excluded,omitempty"`
	Issues   []Issue       `json:"issues,omitempty"`
}

// Aggregate groups deals into the fixed pipeline stages.
func Aggregate(deals []models.Deal) Board {
	return AggregateStages(models.Stages, deals)
}

// AggregateStages groups deals into the given ordered stages. Within a
// column deals keep their input order. Deals whose stage is not one of
// stages are left out of every column and reported as issues.
func AggregateStages(stages []models.Stage, deals []models.Deal) Board {
	board := Board{Columns: make([]Column, len(stages))}
	index := make(map[string]int, len(stages))
	for i, s := range stages {
		board.Columns[i] = Column{Stage: s.Key, Label: s.Label, Deals: []models.Deal{}}
		index[s.Key] = i
	}

	for _, d := range deals {
		i, ok := index[d.Stage]
		if !ok {
			board.Excluded = append(board.Excluded, d)
			board.Issues = append(board.Issues, Issue{
				DealID:  d.ID,
				Stage:   d.Stage,
				Message: fmt.Sprintf("deal %d has unknown stage %q", d.ID, d.Stage),
			})
			continue
		}
		col := &board.Columns[i]
		col.Deals = append(col.Deals, d)
		col.Count++
		col.TotalValue += d.Value
	}
	return board
}

// Column returns the column for a stage key.
func (b Board) Column(stage string) (Column, bool) {
	for _, c := range b.Columns {
		if c.Stage == stage {
			return c, true
		}
	}
	return Column{}, false
}

// TotalCount is the number of deals placed on the board.
func (b Board) TotalCount() int {
	n := 0
	for _, c := range b.Columns {
		n += c.Count
	}
	return n
}

// TotalValue sums the value of every deal placed on the board.
func (b Board) TotalValue() float64 {
	total := 0.0
	for _, c := range b.Columns {
		total += c.TotalValue
	}
	return total
}

// WinRate is closed-won / (closed-won + closed-lost) as a rounded percentage.
func (b Board) WinRate() int {
	won, _ := b.Column(models.StageClosedWon)
	lost, _ := b.Column(models.StageClosedLost)
	return percent(won.Count, won.Count+lost.Count)
}

// WinRate computes the win rate directly over deals.
func WinRate(deals []models.Deal) int {
	won, lost := 0, 0
	for _, d := range deals {
		switch d.Stage {
		case models.StageClosedWon:
			won++
		case models.StageClosedLost:
			lost++
		}
	}
	return percent(won, won+lost)
}

// percent returns round(part/whole*100), or 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(whole)*100 + 0.5))
}

// LogIssues reports data-quality issues at WARN. A nil logger uses log.Default().
func LogIssues(logger *log.Logger, issues []Issue) {
	if logger == nil {
		logger = log.Default()
	}
	for _, issue := range issues {
		logger.Warn("deal excluded from pipeline", "deal", issue.DealID, "stage", issue.Stage)
	}
}

// ABOUTME: Tests for pipeline aggregation and win rate
// ABOUTME: Includes sum and count properties over generated deal collections
package pipeline

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateConcreteScenario(t *testing.T) {
	deals := []models.Deal{
		{ID: 1, Stage: models.StageLead, Value: 100},
		{ID: 2, Stage: models.StageClosedWon, Value: 200},
		{ID: 3, Stage: models.StageClosedLost, Value: 50},
	}

	board := Aggregate(deals)
	require.Len(t, board.Columns, 6)

	want := map[string]struct {
		count int
		total float64
	}{
		models.StageLead:        {1, 100},
		models.StageQualified:   {0, 0},
		models.StageProposal:    {0, 0},
		models.StageNegotiation: {0, 0},
		models.StageClosedWon:   {1, 200},
		models.StageClosedLost:  {1, 50},
	}
	for i, col := range board.Columns {
		assert.Equal(t, models.Stages[i].Key, col.Stage, "columns follow pipeline order")
		assert.Equal(t, models.Stages[i].Label, col.Label)
		assert.Equal(t, want[col.Stage].count, col.Count, col.Stage)
		assert.Equal(t, want[col.Stage].total, col.TotalValue, col.Stage)
		assert.NotNil(t, col.Deals)
	}

	assert.Equal(t, 50, board.WinRate())
	assert.Equal(t, 50, WinRate(deals))
	assert.Empty(t, board.Issues)
}

func TestAggregatePreservesOrderWithinColumn(t *testing.T) {
	deals := []models.Deal{
		{ID: 9, Stage: models.StageProposal, Title: "first"},
		{ID: 4, Stage: models.StageLead},
		{ID: 2, Stage: models.StageProposal, Title: "second"},
	}

	col, ok := Aggregate(deals).Column(models.StageProposal)
	require.True(t, ok)
	require.Len(t, col.Deals, 2)
	assert.Equal(t, "first", col.Deals[0].Title)
	assert.Equal(t, "second", col.Deals[1].Title)
}

func TestAggregateExcludesUnknownStages(t *testing.T) {
	deals := []models.Deal{
		{ID: 1, Stage: models.StageLead, Value: 10},
		{ID: 2, Stage: "won", Value: 99},
		{ID: 3, Stage: "", Value: 1},
	}

	board := Aggregate(deals)
	assert.Equal(t, 1, board.TotalCount())
	assert.Equal(t, 10.0, board.TotalValue())
	require.Len(t, board.Excluded, 2)
	require.Len(t, board.Issues, 2)
	assert.Equal(t, int64(2), board.Issues[0].DealID)
	assert.Equal(t, "won", board.Issues[0].Stage)
	assert.Len(t, deals, 3, "input collection is untouched")
}

func TestAggregateIsPure(t *testing.T) {
	deals := []models.Deal{
		{ID: 1, Stage: models.StageNegotiation, Value: 5},
		{ID: 2, Stage: models.StageClosedWon, Value: 7},
	}
	first := Aggregate(deals)
	_ = Aggregate([]models.Deal{{ID: 3, Stage: models.StageLead}})
	second := Aggregate(deals)
	assert.Equal(t, first, second)
}

func TestAggregateEmpty(t *testing.T) {
	board := Aggregate(nil)
	require.Len(t, board.Columns, 6)
	assert.Equal(t, 0, board.TotalCount())
	assert.Equal(t, 0, board.WinRate())
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		name string
		won  int
		lost int
		want int
	}{
		{"no closed deals", 0, 0, 0},
		{"all won", 3, 0, 100},
		{"all lost", 0, 4, 0},
		{"one third rounds down", 1, 2, 33},
		{"two thirds rounds up", 2, 1, 67},
		{"half", 1, 1, 50},
		{"one in eight rounds half up", 1, 7, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deals []models.Deal
			for i := 0; i < tt.won; i++ {
				deals = append(deals, models.Deal{Stage: models.StageClosedWon})
			}
			for i := 0; i < tt.lost; i++ {
				deals = append(deals, models.Deal{Stage: models.StageClosedLost})
			}
			deals = append(deals, models.Deal{Stage: models.StageLead})

			assert.Equal(t, tt.want, WinRate(deals))
			assert.Equal(t, tt.want, Aggregate(deals).WinRate())
		})
	}
}

func TestAggregateProperties(t *testing.T) {
	stages := append(models.StageKeys(), "won", "archived")
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := rng.Intn(30)
		deals := make([]models.Deal, n)
		validCount := 0
		validSum, allSum := 0.0, 0.0
		for i := range deals {
			stage := stages[rng.Intn(len(stages))]
			value := float64(rng.Intn(10000))
			deals[i] = models.Deal{ID: int64(i + 1), Stage: stage, Value: value}
			allSum += value
			if models.IsValidStage(stage) {
				validCount++
				validSum += value
			}
		}

		board := Aggregate(deals)
		assert.Equal(t, validCount, board.TotalCount())
		assert.Equal(t, validSum, board.TotalValue())
		assert.LessOrEqual(t, board.TotalValue(), allSum)
		assert.Equal(t, n-validCount, len(board.Excluded))

		rate := board.WinRate()
		assert.GreaterOrEqual(t, rate, 0)
		assert.LessOrEqual(t, rate, 100)
	}
}

func TestLogIssuesWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	LogIssues(logger, []Issue{{DealID: 7, Stage: "won"}})
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "deal excluded from pipeline")
	assert.Contains(t, buf.String(), "won")
}

// ABOUTME: Tests for the filter engine, entity configurations and where expressions
// ABOUTME: Covers vacuous predicates, facet membership, options and stale-result tokens
package filter

import (
	"testing"

	"github.com/harperreed/dealdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleContacts = []models.Contact{
	{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Company: "Acme", Tags: []string{"vip", "west"}},
	{ID: 2, FirstName: "Bob", LastName: "Stone", Email: "bob@globex.com", Company: "Globex"},
	{ID: 3, FirstName: "Cy", LastName: "Young", Email: "cy@acme.com", Company: "Acme", Tags: []string{"west"}},
}

func TestContactSearchScenario(t *testing.T) {
	engine := Contacts()
	ann := []models.Contact{sampleContacts[0]}

	for _, term := range []string{"acme", "ACME", "AcMe"} {
		assert.Len(t, engine.Apply(ann, term, nil), 1, term)
	}
	assert.Empty(t, engine.Apply(ann, "zzz", nil))
}

func TestContactSearchFields(t *testing.T) {
	engine := Contacts()

	assert.True(t, engine.Matches(sampleContacts[0], "ANN", nil), "first name")
	assert.True(t, engine.Matches(sampleContacts[0], "lee", nil), "last name")
	assert.False(t, engine.Matches(sampleContacts[0], "ann lee", nil), "names are matched separately")
	assert.False(t, engine.Matches(sampleContacts[0], "n l", nil), "no match across the name boundary")
	assert.True(t, engine.Matches(sampleContacts[1], "GLOBEX.COM", nil), "email")
	assert.False(t, engine.Matches(sampleContacts[1], "vip", nil), "tags are not searched")
	assert.False(t, engine.Matches(sampleContacts[0], "leea", nil), "fields are not joined")
}

func TestVacuousPredicate(t *testing.T) {
	engine := Contacts()
	for _, c := range append(sampleContacts, models.Contact{}) {
		assert.True(t, engine.Matches(c, "", nil))
		assert.True(t, engine.Matches(c, "", map[string]string{}))
		assert.True(t, engine.Matches(c, "", map[string]string{"company": "", "tags": ""}))
	}
}

func TestFacetsCombineWithAnd(t *testing.T) {
	engine := Contacts()

	got := engine.Apply(sampleContacts, "", map[string]string{"company": "Acme"})
	assert.Len(t, got, 2)

	got = engine.Apply(sampleContacts, "", map[string]string{"company": "Acme", "tags": "vip"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got = engine.Apply(sampleContacts, "cy", map[string]string{"tags": "west"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestFacetWithNoMatchingValueIsEmpty(t *testing.T) {
	engine := Contacts()
	assert.Empty(t, engine.Apply(sampleContacts, "", map[string]string{"company": "Initech"}))
	assert.Empty(t, engine.Apply(sampleContacts, "", map[string]string{"tags": "east"}))
	assert.Empty(t, engine.Apply(sampleContacts, "", map[string]string{"colour": "red"}), "unknown facet")
}

func TestFacetEqualityIsExact(t *testing.T) {
	engine := Contacts()
	assert.Empty(t, engine.Apply(sampleContacts, "", map[string]string{"company": "acme"}))
}

func TestOptionsAreDistinctSortedNonEmpty(t *testing.T) {
	engine := Contacts()
	contacts := append(sampleContacts, models.Contact{ID: 4, Company: ""})

	assert.Equal(t, []string{"Acme", "Globex"}, engine.Options(contacts, "company"))
	assert.Equal(t, []string{"vip", "west"}, engine.Options(contacts, "tags"))
	assert.Equal(t, []string{}, engine.Options(contacts, "unknown"))
	assert.Equal(t, []string{"company", "tags"}, engine.FacetKeys())
}

func TestListConfigurations(t *testing.T) {
	quotes := []models.Quote{
		{ID: 1, Name: "Q-1", Company: "Acme", Status: models.QuoteSent},
		{ID: 2, Name: "Q-2", Contact: "Bob Stone", Status: models.QuoteDraft},
	}
	assert.Len(t, Quotes().Apply(quotes, "stone", nil), 1)
	assert.Len(t, Quotes().Apply(quotes, "", map[string]string{"status": models.QuoteSent}), 1)

	orders := []models.SalesOrder{
		{ID: 1, Name: "SO-1", OrderNumber: "ORD-2024-001", CustomerName: "Acme", Status: models.OrderShipped},
	}
	assert.Len(t, SalesOrders().Apply(orders, "2024-001", nil), 1)
	assert.Empty(t, SalesOrders().Apply(orders, "", map[string]string{"status": models.OrderDraft}))

	deals := []models.Deal{
		{ID: 1, Title: "Renewal", Notes: "budget approved", Stage: models.StageProposal},
		{ID: 2, Title: "Pilot", Stage: models.StageLead},
	}
	assert.Len(t, Deals().Apply(deals, "BUDGET", nil), 1)
	assert.Equal(t, []string{models.StageLead, models.StageProposal}, Deals().Options(deals, "stage"))

	companies := []models.Company{{ID: 1, Name: "Acme", Industry: "Software", Size: models.SizeLarge}}
	assert.Len(t, Companies().Apply(companies, "soft", map[string]string{"size": models.SizeLarge}), 1)
}

func TestWhereExpressions(t *testing.T) {
	deals := []models.Deal{
		{ID: 1, Title: "Small", Value: 100, Stage: models.StageLead},
		{ID: 2, Title: "Big", Value: 50000, Stage: models.StageProposal, Probability: 60},
		{ID: 3, Title: "Won", Value: 9000, Stage: models.StageClosedWon},
	}

	w, err := CompileWhere(`value > 1000 && stage != "closed-won"`)
	require.NoError(t, err)
	got, err := ApplyWhere(deals, w)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Big", got[0].Title)

	w, err = CompileWhere(`Id == 3`)
	require.NoError(t, err)
	got, err = ApplyWhere(deals, w)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Won", got[0].Title)

	w, err = CompileWhere(`companyId == nil`)
	require.NoError(t, err)
	got, err = ApplyWhere(deals, w)
	require.NoError(t, err)
	assert.Len(t, got, 3, "absent fields are nil")
}

func TestWhereEmptyMatchesEverything(t *testing.T) {
	w, err := CompileWhere("")
	require.NoError(t, err)
	got, err := ApplyWhere(sampleContacts, w)
	require.NoError(t, err)
	assert.Len(t, got, len(sampleContacts))
}

func TestWhereErrors(t *testing.T) {
	_, err := CompileWhere(`value >`)
	assert.Error(t, err)

	w, err := CompileWhere(`title`)
	require.NoError(t, err)
	_, err = ApplyWhere([]models.Deal{{Title: "x"}}, w)
	assert.ErrorContains(t, err, "not bool")
}

func TestSequencerAcceptsOnlyLatest(t *testing.T) {
	seq := NewSequencer()

	first := seq.Next()
	second := seq.Next()
	assert.Equal(t, 1, second.Compare(first), "tokens are increasing")

	assert.False(t, seq.Accept(first), "stale response is discarded")
	assert.True(t, seq.Accept(second))

	for i := 0; i < 1000; i++ {
		prev := seq.Next()
		next := seq.Next()
		require.Equal(t, 1, next.Compare(prev))
	}
}

// ABOUTME: Tests for entity schema declarations and field mapping
// ABOUTME: Covers consistency validation, defaults, and backend column encoding
package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclaredSchemasAreConsistent(t *testing.T) {
	for _, e := range All() {
		assert.NoError(t, e.Validate(), e.Name)
	}
}

func TestValidateRejectsDuplicateKey(t *testing.T) {
	e := Entity{
		Name:  "deal",
		Table: "deal_c",
		Fields: []Field{
			{Key: "title", Column: "title_c", Type: TypeString},
			{Key: "title", Column: "Name", Type: TypeString},
		},
	}

	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field key")
}

func TestValidateRejectsDuplicateColumn(t *testing.T) {
	e := Entity{
		Name:  "deal",
		Table: "deal_c",
		Fields: []Field{
			{Key: "name", Column: "Name", Type: TypeString},
			{Key: "title", Column: "Name", Type: TypeString},
		},
	}

	err := e.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestValidateRejectsUnknownSearchField(t *testing.T) {
	e := Entity{
		Name:         "contact",
		Table:        "contact_c",
		Fields:       []Field{{Key: "email", Type: TypeString}},
		SearchFields: []string{"email", "company"},
	}

	assert.Error(t, e.Validate())
}

func TestApplyDefaultsKeepsSuppliedValues(t *testing.T) {
	fields := map[string]any{"title": "Renewal", "stage": "proposal"}
	Deals.ApplyDefaults(fields)

	assert.Equal(t, "proposal", fields["stage"])
	assert.Equal(t, 0, fields["probability"])
	assert.Equal(t, 0, fields["value"])
}

func TestApplyDefaultsFillsBlankText(t *testing.T) {
	fields := map[string]any{"name": "Q-1", "status": "", "tags": nil}
	Quotes.ApplyDefaults(fields)

	assert.Equal(t, "Draft", fields["status"])
	assert.Equal(t, []string{}, fields["tags"])

	fields = map[string]any{"name": "SO-1", "status": "  "}
	SalesOrders.ApplyDefaults(fields)
	assert.Equal(t, "Draft", fields["status"])
}

func TestCompleteClearsOmittedFields(t *testing.T) {
	full := Companies.Complete(map[string]any{"name": "Acme"})

	assert.Equal(t, "Acme", full["name"])
	v, ok := full["notes"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Len(t, full, len(Companies.Fields))
}

func TestMissingTreatsBlankAsAbsent(t *testing.T) {
	missing := Contacts.Missing(map[string]any{
		"firstName": "  ",
		"email":     "ann@example.com",
	})

	assert.Equal(t, []string{"firstName", "lastName"}, missing)
}

func TestEncodeDecodeRoundTripsObjectFields(t *testing.T) {
	fields := map[string]any{
		IDKey:  int64(4),
		"name": "Q-100",
		"billingAddress": map[string]any{
			"street": "1 Main St",
			"city":   "Springfield",
		},
	}

	row, err := Quotes.Encode(fields)
	require.NoError(t, err)

	assert.Equal(t, "Q-100", row["Name"])
	assert.IsType(t, "", row["billing_address_c"])
	assert.Equal(t, int64(4), row[IDKey])

	decoded := Quotes.Decode(row)
	assert.Equal(t, "Q-100", decoded["name"])
	assert.Equal(t, map[string]any{"street": "1 Main St", "city": "Springfield"}, decoded["billingAddress"])
}

func TestDecodePassesUndeclaredColumnsThrough(t *testing.T) {
	decoded := Deals.Decode(map[string]any{"title_c": "Pilot", "Owner": "ann"})

	assert.Equal(t, "Pilot", decoded["title"])
	assert.Equal(t, "ann", decoded["Owner"])
}

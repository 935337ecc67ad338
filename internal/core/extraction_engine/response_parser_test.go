package extraction_engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/cardscan/internal/models"
)

const fullResponse = `{
    "name": "John Smith",
    "uid_no": "784-1987-1234567-1",
    "passport_no": "Z1234567",
    "profession": "Partner",
    "sponsor": "MACKSOFY DATA MANAGEMENT & CYBER SECURITY SERVICES CO.",
    "place_of_issue": "Dubai",
    "issue_date": "2020/01/15",
    "expiry_date": "2030/01/14"
}`

func TestParseModelResponse_Full(t *testing.T) {
	res := ParseModelResponse(fullResponse)

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, "John Smith", res.Record.Name)
	assert.Equal(t, "2030/01/14", res.Record.ExpiryDate)
	assert.Len(t, res.Present, len(models.FieldKeys))
}

func TestParseModelResponse_Lenient(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		field   string
		want    string
		present bool
	}{
		{"code fence", "```json\n{\"name\": \"JOHN SMITH\"}\n```", models.FieldName, "JOHN SMITH", true},
		{"bare fence", "```\n{\"name\": \"JOHN SMITH\"}\n```", models.FieldName, "JOHN SMITH", true},
		{"missing key", `{"name": "JOHN SMITH"}`, models.FieldSponsor, models.NotFound, false},
		{"empty value", `{"sponsor": ""}`, models.FieldSponsor, models.NotFound, true},
		{"null value", `{"sponsor": null}`, models.FieldSponsor, models.NotFound, true},
		{"number value", `{"uid_no": 123456789}`, models.FieldUIDNo, "123456789", true},
		{"unknown keys ignored", `{"nationality": "India", "name": "A B"}`, models.FieldName, "A B", true},
		{"model wrote sentinel", `{"name": "Not Found"}`, models.FieldName, models.NotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseModelResponse(tt.raw)
			require.True(t, res.OK, res.Reason)
			assert.Equal(t, tt.want, res.Record.Get(tt.field))
			assert.Equal(t, tt.present, res.Present[tt.field])
		})
	}
}

func TestParseModelResponse_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose", "The name is JOHN SMITH and the passport is Z1234567."},
		{"array", `["JOHN SMITH"]`},
		{"string", `"JOHN SMITH"`},
		{"truncated", `{"name": "JOHN`},
		{"trailing text", `{"name": "JOHN SMITH"} hope this helps`},
		{"object value", `{"name": {"first": "JOHN"}}`},
		{"list value", `{"sponsor": ["A", "B"]}`},
		{"bool value", `{"profession": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseModelResponse(tt.raw)
			assert.False(t, res.OK)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1}  "))
}

func TestCompiledSchema_InMemoryLocation(t *testing.T) {
	sch, err := compiledSchema()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sch.Location, recordSchemaID), sch.Location)
	assert.NotContains(t, sch.Location, "file://")
}

package extraction_engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/cardscan/internal/core"
	"github.com/markdave123-py/cardscan/internal/models"
)

func TestOrchestrator_Prompt(t *testing.T) {
	llm := &fakeLLM{response: `{"name": "JOHN SMITH"}`}
	o := NewOrchestrator(llm, nil, nil)

	chunks := []models.TextChunk{{Position: 0, Text: "first"}, {Position: 3, Text: "second"}}
	_, err := o.Extract(context.Background(), chunks)
	require.NoError(t, err)

	assert.Equal(t, systemPrompt, llm.system)
	assert.Equal(t, "Context:\nfirst\n---\nsecond\n\nQuestion: "+ExtractionQuery, llm.user)
	for _, k := range models.FieldKeys {
		assert.Contains(t, llm.user, `"`+k+`"`)
	}
}

func TestOrchestrator_ValidJSON(t *testing.T) {
	o := NewOrchestrator(&fakeLLM{response: fullResponse}, nil, nil)

	rec, err := o.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Partner", rec.Profession)
	assert.Equal(t, "MACKSOFY DATA MANAGEMENT & CYBER SECURITY SERVICES CO.", rec.Sponsor)
	assert.Equal(t, "2020/01/15", rec.IssueDate)
}

func TestOrchestrator_SwapsMisplacedFields(t *testing.T) {
	resp := `{"profession": "MACKSOFY DATA MANAGEMENT & CYBER SECURITY SERVICES CO.", "sponsor": "Partner"}`
	o := NewOrchestrator(&fakeLLM{response: resp}, nil, nil)

	rec, err := o.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Partner", rec.Profession)
	assert.Equal(t, "MACKSOFY DATA MANAGEMENT & CYBER SECURITY SERVICES CO.", rec.Sponsor)
}

func TestOrchestrator_LeavesUnrelatedFields(t *testing.T) {
	resp := `{"profession": "Accountant", "sponsor": "ABC Trading LLC"}`
	o := NewOrchestrator(&fakeLLM{response: resp}, nil, nil)

	rec, err := o.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Accountant", rec.Profession)
	assert.Equal(t, "ABC Trading LLC", rec.Sponsor)
}

func TestOrchestrator_NoSwapWithoutBothKeys(t *testing.T) {
	resp := `{"profession": "ACME SERVICES CO."}`
	o := NewOrchestrator(&fakeLLM{response: resp}, nil, nil)

	rec, err := o.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ACME SERVICES CO.", rec.Profession)
	assert.Equal(t, models.NotFound, rec.Sponsor)
}

func TestOrchestrator_FallsBackToRegexOnResponse(t *testing.T) {
	raw := "Sure! Name: JOHN MICHAEL SMITH, passport Z1234567, issued Dubai 2020/01/15, expires 2030/01/14."
	o := NewOrchestrator(&fakeLLM{response: raw}, nil, nil)

	rec, err := o.Extract(context.Background(), []models.TextChunk{{Text: "unrelated Z9999999"}})
	require.NoError(t, err)
	assert.Equal(t, ExtractUsingRegex(raw), rec)
	assert.Equal(t, "Z1234567", rec.PassportNo)
	assert.Equal(t, "2020/01/15", rec.IssueDate)
	assert.Equal(t, "2030/01/14", rec.ExpiryDate)
}

func TestOrchestrator_ModelFailure(t *testing.T) {
	boom := errors.New("503 from upstream")
	o := NewOrchestrator(&fakeLLM{err: boom}, nil, nil)

	rec, err := o.Extract(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelFailure)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.ExtractedRecord{}, rec)
}

package extraction_engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/markdave123-py/cardscan/internal/models"
)

// ExtractionQuery is both the retrieval query and the question put to the model.
const ExtractionQuery = `Extract the following details from the text. For each field, if the information is not found, write 'Not Found'.

1. Name (full name in English)
2. UID No. (Emirates ID number)
3. Passport No.
4. Profession:
   - If you see "Partner" or "Partner (Female)" by itself, this is the Profession
   - Simple job titles should be listed as Profession
5. Sponsor:
   - If you see company names like "MACKSOFY DATA MANAGEMENT & CYBER SECURITY SERVICES CO.", this is the Sponsor
   - Company names should always be listed as Sponsor, not Profession
6. Place of Issue (should be a city name like Dubai)
7. Issue Date (in format YYYY/MM/DD)
8. Expiry Date (in format YYYY/MM/DD)

Important:
- Any text containing 'SERVICES CO', 'DATA MANAGEMENT' should be listed as Sponsor
- Job titles like 'Partner' or 'Partner (Female)' should be listed as Profession

Format the response as a JSON object with these exact keys:
{
    "name": "",
    "uid_no": "",
    "passport_no": "",
    "profession": "",
    "sponsor": "",
    "place_of_issue": "",
    "issue_date": "",
    "expiry_date": ""
}

Only return the JSON object, nothing else.`

const systemPrompt = "Use the following pieces of context to answer the question at the end. " +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer."

// buildUserPrompt renders the retrieved context and the question.
func buildUserPrompt(chunks []models.TextChunk, question string) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion: %s", joinChunks(chunks), question)
}

// recordSchema accepts any JSON object; the eight record keys, when present,
// must be scalar text (strings, with numbers and null tolerated).
func recordSchema() string {
	props := make([]string, 0, len(models.FieldKeys))
	for _, k := range models.FieldKeys {
		props = append(props, fmt.Sprintf(`%q: {"type": ["string", "number", "null"]}`, k))
	}
	return fmt.Sprintf(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {%s}
}`, strings.Join(props, ", "))
}

// recordSchemaID is an absolute, in-memory schema location.
const recordSchemaID = "mem://cardscan/record.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(recordSchemaID, strings.NewReader(recordSchema())); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(recordSchemaID)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

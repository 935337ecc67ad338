package extraction_engine

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/markdave123-py/cardscan/internal/models"
)

// ParseResult is the outcome of reading a model response as a record.
// When OK is false, Record is unset and Reason says why.
type ParseResult struct {
	Record  models.ExtractedRecord
	Present map[string]bool // record keys the model emitted
	OK      bool
	Reason  string
}

// ParseModelResponse reads raw as a JSON object carrying the record keys.
// A surrounding markdown code fence is tolerated. Missing or empty keys
// become models.NotFound; unknown keys are ignored.
func ParseModelResponse(raw string) ParseResult {
	body := stripCodeFence(raw)
	if body == "" {
		return ParseResult{Reason: "empty response"}
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return ParseResult{Reason: "invalid json: " + err.Error()}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ParseResult{Reason: "trailing data after json object"}
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return ParseResult{Reason: "response is not a json object"}
	}

	sch, err := compiledSchema()
	if err != nil {
		return ParseResult{Reason: err.Error()}
	}
	if err := sch.Validate(v); err != nil {
		return ParseResult{Reason: "json does not match schema: " + err.Error()}
	}

	res := ParseResult{
		Record:  models.NewExtractedRecord(),
		Present: make(map[string]bool, len(models.FieldKeys)),
		OK:      true,
	}
	for _, k := range models.FieldKeys {
		val, found := obj[k]
		if !found {
			continue
		}
		res.Present[k] = true

		var s string
		switch t := val.(type) {
		case string:
			s = t
		case json.Number:
			s = t.String()
		}
		if strings.TrimSpace(s) != "" {
			res.Record.Set(k, s)
		}
	}
	return res
}

// stripCodeFence removes a ```json ... ``` wrapper if the whole response is one.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the info string, e.g. "json".
		if !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package models

// NotFound is stored in any record field whose value could not be determined.
const NotFound = "Not Found"

// Record keys, in display order.
const (
	FieldName         = "name"
	FieldUIDNo        = "uid_no"
	FieldPassportNo   = "passport_no"
	FieldProfession   = "profession"
	FieldSponsor      = "sponsor"
	FieldPlaceOfIssue = "place_of_issue"
	FieldIssueDate    = "issue_date"
	FieldExpiryDate   = "expiry_date"
)

// FieldKeys lists every record key in display order.
var FieldKeys = []string{
	FieldName,
	FieldUIDNo,
	FieldPassportNo,
	FieldProfession,
	FieldSponsor,
	FieldPlaceOfIssue,
	FieldIssueDate,
	FieldExpiryDate,
}

var fieldLabels = map[string]string{
	FieldName:         "Name",
	FieldUIDNo:        "UID Number",
	FieldPassportNo:   "Passport Number",
	FieldProfession:   "Profession",
	FieldSponsor:      "Sponsor",
	FieldPlaceOfIssue: "Place of Issue",
	FieldIssueDate:    "Issue Date",
	FieldExpiryDate:   "Expiry Date",
}

// ExtractedRecord is the fixed-shape result of one card extraction.
type ExtractedRecord struct {
	Name         string `json:"name"`
	UIDNo        string `json:"uid_no"`
	PassportNo   string `json:"passport_no"`
	Profession   string `json:"profession"`
	Sponsor      string `json:"sponsor"`
	PlaceOfIssue string `json:"place_of_issue"`
	IssueDate    string `json:"issue_date"`  // YYYY/MM/DD
	ExpiryDate   string `json:"expiry_date"` // YYYY/MM/DD
}

// NewExtractedRecord returns a record with every field set to NotFound.
func NewExtractedRecord() ExtractedRecord {
	return ExtractedRecord{
		Name:         NotFound,
		UIDNo:        NotFound,
		PassportNo:   NotFound,
		Profession:   NotFound,
		Sponsor:      NotFound,
		PlaceOfIssue: NotFound,
		IssueDate:    NotFound,
		ExpiryDate:   NotFound,
	}
}

func (r *ExtractedRecord) field(key string) *string {
	switch key {
	case FieldName:
		return &r.Name
	case FieldUIDNo:
		return &r.UIDNo
	case FieldPassportNo:
		return &r.PassportNo
	case FieldProfession:
		return &r.Profession
	case FieldSponsor:
		return &r.Sponsor
	case FieldPlaceOfIssue:
		return &r.PlaceOfIssue
	case FieldIssueDate:
		return &r.IssueDate
	case FieldExpiryDate:
		return &r.ExpiryDate
	}
	return nil
}

// Get returns the value stored under key, or "" for an unknown key.
func (r ExtractedRecord) Get(key string) string {
	if p := r.field(key); p != nil {
		return *p
	}
	return ""
}

// Set stores value under key. It reports false for an unknown key.
func (r *ExtractedRecord) Set(key, value string) bool {
	p := r.field(key)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Field is one labelled record value.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fields returns the record values in display order.
func (r ExtractedRecord) Fields() []Field {
	out := make([]Field, 0, len(FieldKeys))
	for _, k := range FieldKeys {
		out = append(out, Field{Key: k, Label: fieldLabels[k], Value: r.Get(k)})
	}
	return out
}

// TextChunk is one ordered fragment of OCR text used for retrieval.
//
// Position: zero-based order of the chunk inside the source text.
// Text:     chunk content.
type TextChunk struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// BlockTypeLine marks an OCR entry that holds one full text line.
const BlockTypeLine = "LINE"

// OCRLine is one entry reported by the OCR service.
type OCRLine struct {
	Text      string `json:"text"`
	BlockType string `json:"block_type"` // LINE | WORD | PAGE
}

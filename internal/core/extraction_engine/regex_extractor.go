package extraction_engine

import (
	"regexp"
	"strings"

	"github.com/markdave123-py/cardscan/internal/models"
)

var (
	rePlaceOfIssue = regexp.MustCompile(`(?i)(Dubai|Abu Dhabi|Sharjah|Ajman|Umm Al Quwain|Ras Al Khaimah|Fujairah)`)
	reUIDNo        = regexp.MustCompile(`\b\d{8,9}\b`)
	rePassportNo   = regexp.MustCompile(`Z\d{7}`)
	reDate         = regexp.MustCompile(`\d{4}/\d{2}/\d{2}`)
	reName         = regexp.MustCompile(`\b[A-Z]+(?:\s+[A-Z]+)+\b`)

	// Only recognises one known sponsor's legal name; not a general company detector.
	reSponsor = regexp.MustCompile(`MACKSOFY.*SERVICES CO\.`)
)

// ExtractUsingRegex fills the record from raw text with fixed patterns.
// It never fails: every rule that does not match leaves models.NotFound.
func ExtractUsingRegex(text string) models.ExtractedRecord {
	rec := models.NewExtractedRecord()

	if m := rePlaceOfIssue.FindStringSubmatch(text); m != nil {
		rec.PlaceOfIssue = m[1]
	}

	if m := reUIDNo.FindString(text); m != "" {
		rec.UIDNo = m
	}

	if m := rePassportNo.FindString(text); m != "" {
		rec.PassportNo = m
	}

	// Positional: first date is the issue date, second the expiry date.
	if dates := reDate.FindAllString(text, 2); len(dates) >= 2 {
		rec.IssueDate = dates[0]
		rec.ExpiryDate = dates[1]
	}

	if m := reName.FindString(text); m != "" {
		rec.Name = m
	}

	if strings.Contains(text, "PARTNER") || strings.Contains(text, "Partner") {
		rec.Profession = "Partner"
	}

	if m := reSponsor.FindString(text); m != "" {
		rec.Sponsor = m
	}

	return rec
}

package extraction_engine

import (
	"strings"

	"github.com/markdave123-py/cardscan/internal/models"
)

// Disambiguate swaps profession and sponsor when the model put a company
// name in profession, or a bare "Partner" title in sponsor. At most one
// swap happens; values keep their original casing.
func Disambiguate(rec models.ExtractedRecord) models.ExtractedRecord {
	prof := strings.ToUpper(rec.Profession)
	sponsor := strings.ToUpper(rec.Sponsor)

	switch {
	case strings.Contains(prof, "SERVICES CO"), strings.Contains(prof, "DATA MANAGEMENT"):
		rec.Profession, rec.Sponsor = rec.Sponsor, rec.Profession
	case isPartnerTitle(sponsor):
		rec.Profession, rec.Sponsor = rec.Sponsor, rec.Profession
	}
	return rec
}

func isPartnerTitle(upper string) bool {
	switch strings.TrimSpace(upper) {
	case "PARTNER", "PARTNER (FEMALE)":
		return true
	}
	return false
}

package geo

import (
	"errors"
	"strings"

	"github.com/biter777/countries"
)

// ErrUnknownCountry is returned when a stored country name cannot be
// resolved to an ISO 3166-1 code.
var ErrUnknownCountry = errors.New("unknown country")

// aliases maps common native or colloquial spellings seen in profile
// data to the English name the ISO table resolves. Keys are lowercase.
var aliases = map[string]string{
	"deutschland":    "Germany",
	"holland":        "Netherlands",
	"nederland":      "Netherlands",
	"españa":         "Spain",
	"espana":         "Spain",
	"italia":         "Italy",
	"österreich":     "Austria",
	"oesterreich":    "Austria",
	"schweiz":        "Switzerland",
	"suisse":         "Switzerland",
	"sverige":        "Sweden",
	"norge":          "Norway",
	"danmark":        "Denmark",
	"suomi":          "Finland",
	"polska":         "Poland",
	"brasil":         "Brazil",
	"méxico":         "Mexico",
	"türkiye":        "Turkey",
	"usa":            "United States",
	"america":        "United States",
	"united states of america": "United States",
	"uk":             "United Kingdom",
	"great britain":  "United Kingdom",
	"england":        "United Kingdom",
}

// NormalizeCountry maps free-text country input to the English name used
// for code resolution. Unrecognized input passes through trimmed.
func NormalizeCountry(name string) string {
	trimmed := strings.TrimSpace(name)
	if alias, ok := aliases[strings.ToLower(trimmed)]; ok {
		return alias
	}
	return trimmed
}

// CountryCode resolves a free-text country name to its ISO 3166-1
// alpha-2 code, e.g. "Deutschland" -> "DE".
func CountryCode(name string) (string, error) {
	normalized := NormalizeCountry(name)
	if normalized == "" {
		return "", ErrUnknownCountry
	}
	cc := countries.ByName(normalized)
	if cc == countries.Unknown {
		return "", ErrUnknownCountry
	}
	return cc.Alpha2(), nil
}

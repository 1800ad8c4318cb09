package period

import (
	"strings"
	"time"
)

// Spanish month lookup tables. Providers mix full names ("febrero") and
// 3-letter abbreviations ("Ene", "Dic"); both resolve here.
var monthAbbrev = map[string]time.Month{
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dic": time.December,
}

var monthName = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
}

// MonthFromSpanish resolves a Spanish month token, full name first, then the
// 3-letter abbreviation. Returns 0 when the token is not a month.
func MonthFromSpanish(token string) time.Month {
	t := strings.ToLower(strings.TrimSpace(token))
	if m, ok := monthName[t]; ok {
		return m
	}
	if len(t) >= 3 {
		if m, ok := monthAbbrev[t[:3]]; ok {
			return m
		}
	}
	return 0
}

// MonthFromAbbrev resolves only the 3-letter abbreviation form.
func MonthFromAbbrev(token string) time.Month {
	m, ok := monthAbbrev[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0
	}
	return m
}

// ExpandTwoDigitYear expands a two-digit year: <50 means 20xx, else 19xx.
func ExpandTwoDigitYear(yy int) int {
	if yy < 50 {
		return 2000 + yy
	}
	return 1900 + yy
}

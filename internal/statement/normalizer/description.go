package normalizer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// excludedPrefixes mark non-purchase entries: payment lines, promos, credit
// adjustments and table leftovers. Matching is case-insensitive on the start
// of the description.
var excludedPrefixes = []string{
	"su pago",
	"promo",
	"cr.",
	"cr ",
	"total de",
	"tarjeta de",
	"tarjeta visa",
	"movimientos del resumen",
}

// excludedMatcher pre-screens descriptions for any excluded phrase before the
// exact prefix check runs.
var excludedMatcher = ahocorasick.NewStringMatcher(excludedPrefixes)

// CleanDescription trims a description and collapses runs of whitespace.
func CleanDescription(raw string) string {
	s := strings.TrimSpace(raw)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

// IsExcludedDescription reports whether a description identifies a
// non-purchase entry that must not reach the ledger.
func IsExcludedDescription(description string) bool {
	d := strings.ToLower(strings.TrimSpace(description))
	if d == "" {
		return false
	}
	if len(excludedMatcher.Match([]byte(d))) == 0 {
		return false
	}
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(d, prefix) {
			return true
		}
	}
	return false
}

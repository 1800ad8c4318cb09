// Package normalizer provides the locale-aware scalar parsers used when
// normalizing statement rows: money amounts, dates, installment counters and
// description cleanup. Argentine statements write amounts with a period as
// thousands separator and a comma as decimal point ("$1.443.685,70",
// "U$S-17,87").
package normalizer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var moneyCleanRe = regexp.MustCompile(`[^0-9,\-]`)

// ParseMoney parses a statement amount into an exact decimal. The thousands
// periods are stripped first, then every character other than digit, comma
// and minus, and the comma becomes the decimal point. Sign is preserved.
// Returns false for empty, "nan" or unparseable input.
func ParseMoney(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.Decimal{}, false
	}

	s = strings.ReplaceAll(s, ".", "")
	s = moneyCleanRe.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Decimal{}, false
	}

	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

package normalizer

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"02/01/2006", // DD/MM/YYYY
	"02-01-2006", // DD-MM-YYYY
}

// ParseDate parses a literal statement date. Only the day-first layouts that
// appear on the supported statements are accepted; anything else returns
// false.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

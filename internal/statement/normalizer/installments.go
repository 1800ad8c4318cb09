package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

var installmentsRe = regexp.MustCompile(`(?i)^(\d+)\s*de\s*(\d+)$`)

// ParseInstallments parses an installment counter like "2 de 4" into
// (index, total). The index is clamped into [1, total]. Any non-match,
// missing or non-positive input means a single non-installment purchase
// and yields (1, 1).
func ParseInstallments(raw string) (index, total int) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 1, 1
	}

	m := installmentsRe.FindStringSubmatch(s)
	if m == nil {
		return 1, 1
	}

	index, _ = strconv.Atoi(m[1])
	total, _ = strconv.Atoi(m[2])
	if total <= 0 {
		return 1, 1
	}
	if index < 1 {
		index = 1
	}
	if index > total {
		index = total
	}
	return index, total
}

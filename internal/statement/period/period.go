// Package period models statement periods as calendar year-months and locates
// the closing month of a statement inside extracted document text.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// YearMonth is the YYYY-MM period a statement's closing date falls in. It
// anchors installment scheduling.
type YearMonth struct {
	Year  int
	Month time.Month
}

var yearMonthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// Parse parses a "YYYY-MM" string.
func Parse(s string) (YearMonth, error) {
	m := yearMonthRe.FindStringSubmatch(s)
	if m == nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q", s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("invalid month in %q", s)
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// Of returns the year-month containing the given date.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// String formats as "YYYY-MM".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// IsZero reports whether ym is the zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// AddMonths shifts the period by the given number of months, negative values
// roll backwards. Pure month arithmetic, no day-of-month concerns.
func (ym YearMonth) AddMonths(months int) YearMonth {
	month0 := ym.Year*12 + int(ym.Month) - 1 + months
	year := month0 / 12
	month := month0%12 + 1
	if month0 < 0 {
		// Go integer division truncates toward zero; renormalize.
		year = (month0 - 11) / 12
		month = month0 - year*12 + 1
	}
	return YearMonth{Year: year, Month: time.Month(month)}
}

// First returns the first day of the period.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

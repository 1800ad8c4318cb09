package period

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/cartera-app/cartera-api/internal/statement/normalizer"
)

// ErrStatementMonthUndetected means no closing-date anchor matched. The whole
// import aborts on it: without the statement month no row can be attributed
// to a period.
var ErrStatementMonthUndetected = errors.New("statement closing month not detected")

// Closing-date anchor patterns, tried in fixed priority order.
var (
	// "Cierre actual 5 de febrero" / "Este es tu resumen de febrero"
	anchorMonthNameRe = regexp.MustCompile(`(?i)(?:cierre\s+actual|resumen\s+de)\s+(?:\d+\s+de\s+)?(\w+)\b`)

	// "Fecha de cierre: 22/01/2026" / "Cierre: 22/01/2026"
	anchorSlashDateRe = regexp.MustCompile(`(?i)(?:fecha\s+de\s+cierre|cierre)[:\s]+(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	// "CIERRE ACTUAL: 22 Ene 26"
	anchorAbbrevRe = regexp.MustCompile(`(?i)cierre\s+actual[:\s]+(\d{1,2})\s+([a-zA-Z]{3})\s+(\d{2})\b`)

	// "Estado de cuenta al : 22-Ene-26" / "Cierre Anterior : 24-Dic-25"
	anchorDashAbbrevRe = regexp.MustCompile(`(?i)(?:estado\s+de\s+cuenta\s+al|cierre\s+anterior)[:\s]+(\d{1,2})[-]([a-zA-Z]{3})[-](\d{2})\b`)

	// Generic "date near the word cierre" fallbacks.
	anchorGenericRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)fecha\s+de\s+cierre[:\s]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`),
		regexp.MustCompile(`(?i)cierre[:\s]+(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`),
		regexp.MustCompile(`(?i)(\d{1,2})[/\-](\d{1,2})[/\-](\d{4}).*cierre`),
	}

	yearTokenRe = regexp.MustCompile(`\b(20\d{2})\b`)

	closingLabelRe = regexp.MustCompile(`(?i)fecha\s+de\s+cierre`)
)

// Locator finds the statement's closing year-month. DefaultYear backs the
// month-name anchor when the text carries no 4-digit year token; callers
// normally set it from the current clock.
type Locator struct {
	DefaultYear int
}

// FromText scans concatenated page text for a closing-date anchor. The first
// matching pattern wins.
func (l Locator) FromText(text string) (YearMonth, error) {
	if m := anchorMonthNameRe.FindStringSubmatch(text); m != nil {
		if month := MonthFromSpanish(m[1]); month != 0 {
			return YearMonth{Year: l.maxYearToken(text), Month: month}, nil
		}
	}

	if m := anchorSlashDateRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 {
			return YearMonth{Year: year, Month: time.Month(month)}, nil
		}
	}

	for _, re := range []*regexp.Regexp{anchorAbbrevRe, anchorDashAbbrevRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if month := MonthFromAbbrev(m[2]); month != 0 {
				yy, _ := strconv.Atoi(m[3])
				return YearMonth{Year: ExpandTwoDigitYear(yy), Month: month}, nil
			}
		}
	}

	for _, re := range anchorGenericRes {
		if m := re.FindStringSubmatch(text); m != nil {
			month, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if month >= 1 && month <= 12 {
				return YearMonth{Year: year, Month: time.Month(month)}, nil
			}
		}
	}

	return YearMonth{}, ErrStatementMonthUndetected
}

// FromGrid locates the row carrying the "fecha de cierre" label in a
// spreadsheet grid and reads the closing date from the following row.
func (l Locator) FromGrid(grid [][]string) (YearMonth, error) {
	for i := 0; i+1 < len(grid); i++ {
		if !rowHasClosingLabel(grid[i]) {
			continue
		}
		for _, cell := range grid[i+1] {
			if d, ok := normalizer.ParseDate(cell); ok {
				return Of(d), nil
			}
		}
	}
	return YearMonth{}, ErrStatementMonthUndetected
}

func rowHasClosingLabel(row []string) bool {
	for _, cell := range row {
		if closingLabelRe.MatchString(cell) {
			return true
		}
	}
	return false
}

// maxYearToken returns the largest 4-digit year found anywhere in the text.
// The configured default year applies only when the text carries no year
// token at all.
func (l Locator) maxYearToken(text string) int {
	year := 0
	for _, m := range yearTokenRe.FindAllStringSubmatch(text, -1) {
		if y, _ := strconv.Atoi(m[1]); y > year {
			year = y
		}
	}
	if year == 0 {
		return l.DefaultYear
	}
	return year
}


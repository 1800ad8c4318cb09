package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/normalizer"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

// Banco Nación Mastercard movement line:
// "DD-Mmm-YY descripción X/Y comprobante monto"
var nacionMastercardLineRe = regexp.MustCompile(
	`^(\d{1,2})-([a-zA-Z]{3})-(\d{2})\s+` + // date DD-Mmm-YY
		`(.+?)\s+` + // description
		`(\d+)/(\d+)\s+` + // installment X/Y
		`\d+\s+` + // receipt number
		`(` + amountPattern + `)\s*$`)

// The movements tables open under either of these section headers.
var nacionMastercardSections = []string{"DETALLES DEL MES", "CUOTAS DEL MES"}

var nacionMastercardSectionMatcher = ahocorasick.NewStringMatcher(nacionMastercardSections)

// nacionMastercardStrategy parses the Banco Nación Mastercard layout:
// "DETALLES DEL MES" / "CUOTAS DEL MES" sections with an explicit X/Y
// installment column, amounts in pesos only, ended by a "TOTAL..." line.
type nacionMastercardStrategy struct{}

func (nacionMastercardStrategy) Name() string { return "nacion-mastercard" }

func (nacionMastercardStrategy) Parse(doc *document.Document, ym period.YearMonth) []Row {
	var out []Row
	inMovements := false

	for _, line := range textLines(doc) {
		line = strings.TrimSpace(line)
		if len(nacionMastercardSectionMatcher.Match([]byte(strings.ToUpper(line)))) > 0 {
			inMovements = true
			continue
		}
		if !inMovements {
			continue
		}

		m := nacionMastercardLineRe.FindStringSubmatch(line)
		if m == nil {
			// "TOTAL TITULAR..." closes the section.
			if strings.Contains(strings.ToUpper(line), "TOTAL") {
				break
			}
			continue
		}

		day, _ := strconv.Atoi(m[1])
		month := period.MonthFromAbbrev(m[2])
		yy, _ := strconv.Atoi(m[3])
		date, ok := validDate(period.ExpandTwoDigitYear(yy), month, day)
		if !ok {
			continue
		}

		index, _ := strconv.Atoi(m[5])
		total, _ := strconv.Atoi(m[6])
		if total < 1 {
			index, total = 1, 1
		}
		if index < 1 {
			index = 1
		}
		if index > total {
			index = total
		}

		amount, ok := normalizer.ParseMoney(m[7])
		if !ok {
			continue
		}

		if row, ok := buildRow(date, m[4], money.ARS, index, total, amount, ym); ok {
			out = append(out, row)
		}
	}

	return out
}

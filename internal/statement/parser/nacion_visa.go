package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/normalizer"
	"github.com/cartera-app/cartera-api/internal/statement/period"
)

// amountPattern matches a statement amount with or without thousands
// separators: "55863,54" or "-1.234,56".
const amountPattern = `-?\d{1,3}(?:\.\d{3})*,\d{2}|-?\d+,\d{2}`

// Banco Nación Visa movement line:
// "DD.MM.YY comprobante descripción C.X/Y monto_pesos monto_dolares"
var nacionVisaLineRe = regexp.MustCompile(
	`^(\d{2})\.(\d{2})\.(\d{2})\s+` + // date DD.MM.YY
		`(.+?)\s+` + // description, up to the amounts
		`(` + amountPattern + `)\s+` + // pesos
		`(` + amountPattern + `)\s*$`) // dólares

// nacionVisaStrategy parses the Banco Nación Visa layout: a movements table
// headed "FECHA COMPROBANTE DETALLE ... PESOS DOLAR" with dual amount
// columns.
type nacionVisaStrategy struct{}

func (nacionVisaStrategy) Name() string { return "nacion-visa" }

func (nacionVisaStrategy) Parse(doc *document.Document, ym period.YearMonth) []Row {
	var out []Row
	inMovements := false

	for _, line := range textLines(doc) {
		line = strings.TrimSpace(line)
		u := strings.ToUpper(line)
		if strings.Contains(u, "FECHA COMPROBANTE DETALLE") && strings.Contains(u, "PESOS") {
			inMovements = true
			continue
		}
		if !inMovements {
			continue
		}

		m := nacionVisaLineRe.FindStringSubmatch(line)
		if m == nil {
			// A line without a leading date is a continuation of the
			// previous movement; nothing to extract from it.
			continue
		}

		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		yy, _ := strconv.Atoi(m[3])
		date, ok := validDate(period.ExpandTwoDigitYear(yy), time.Month(month), day)
		if !ok {
			continue
		}

		currency, amount, ok := selectCurrency(m[5], m[6])
		if !ok {
			continue
		}

		index, total := normalizer.ParseInstallments(installmentToken(m[4]))
		if row, ok := buildRow(date, m[4], currency, index, total, amount, ym); ok {
			out = append(out, row)
		}
	}

	return out
}

// installmentCounterRe finds an embedded "n de m" counter inside a free-text
// description ("MERPAGO*MERCADOLIBRE 3 de 3").
var installmentCounterRe = regexp.MustCompile(`(?i)\b(\d+)\s*de\s*(\d+)\b`)

// installmentToken pulls an installment counter out of a description so the
// strict "n de m" micro-parser can read it.
func installmentToken(description string) string {
	m := installmentCounterRe.FindString(description)
	return m
}

package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/normalizer"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

// MercadoPago app export line:
// "10/nov MERPAGO*MERCADOLIBRE 3 de 3 304823 $ 22.293,25"
// "6/ene Pago de tarjeta -$ 457.199,78"
var mercadoPagoAppLineRe = regexp.MustCompile(
	`^(\d{1,2})/([a-zA-Z]{3})\s+` + // DD/mmm
		`(.+?)\s+` + // description
		`(-?\$?\s*)([0-9.,]+)\s*$`) // optional sign, amount

// MercadoPago alternative PDF line: "DD/MM/YYYY descripción monto [monto_usd]"
var mercadoPagoGenericLineRe = regexp.MustCompile(
	`^(\d{1,2})/(\d{1,2})/(\d{2,4})\s+` +
		`(.+?)\s+` +
		`(` + amountPattern + `)\s*` +
		`(` + amountPattern + `)?\s*$`)

// Residual table headers that the app export interleaves with movements.
var mercadoPagoHeaderWords = map[string]bool{
	"FECHA": true, "DESCRIPCION": true, "DETALLE": true,
	"MOVIMIENTOS": true, "PESOS": true, "DÓLARES": true,
}

// mercadoPagoAppStrategy parses the MercadoPago app export: day and
// abbreviated month with no year, so the year is inferred from the statement
// month (a transaction month later than the closing month belongs to the
// previous calendar year).
type mercadoPagoAppStrategy struct{}

func (mercadoPagoAppStrategy) Name() string { return "mercadopago-app" }

func (mercadoPagoAppStrategy) Parse(doc *document.Document, ym period.YearMonth) []Row {
	var out []Row

	for _, line := range textLines(doc) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := mercadoPagoAppLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		day, _ := strconv.Atoi(m[1])
		month := period.MonthFromAbbrev(m[2])
		if month == 0 {
			continue
		}

		year := ym.Year
		if month > ym.Month {
			year--
		}
		date, ok := validDate(year, month, day)
		if !ok {
			continue
		}

		description := strings.TrimSpace(m[3])
		if len(description) < 3 || mercadoPagoHeaderWords[strings.ToUpper(description)] {
			continue
		}

		raw := m[5]
		if strings.Contains(m[4], "-") {
			raw = "-" + raw
		}
		amount, ok := normalizer.ParseMoney(raw)
		if !ok {
			continue
		}

		index, total := normalizer.ParseInstallments(installmentToken(description))
		if row, ok := buildRow(date, description, money.ARS, index, total, amount, ym); ok {
			out = append(out, row)
		}
	}

	return out
}

// mercadoPagoGenericStrategy parses the alternative MercadoPago PDF layout
// with full DD/MM/YYYY dates and one or two trailing amount columns.
type mercadoPagoGenericStrategy struct{}

func (mercadoPagoGenericStrategy) Name() string { return "mercadopago" }

func (mercadoPagoGenericStrategy) Parse(doc *document.Document, ym period.YearMonth) []Row {
	var out []Row

	for _, line := range textLines(doc) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := mercadoPagoGenericLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year = period.ExpandTwoDigitYear(year)
		}
		date, ok := validDate(year, time.Month(month), day)
		if !ok {
			continue
		}

		description := strings.TrimSpace(m[4])
		if len(description) < 3 || mercadoPagoHeaderWords[strings.ToUpper(description)] {
			continue
		}

		currency, amount, ok := selectCurrency(m[5], m[6])
		if !ok {
			continue
		}

		index, total := normalizer.ParseInstallments(installmentToken(description))
		if row, ok := buildRow(date, description, currency, index, total, amount, ym); ok {
			out = append(out, row)
		}
	}

	return out
}

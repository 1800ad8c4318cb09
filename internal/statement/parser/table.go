package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/normalizer"
	"github.com/cartera-app/cartera-api/internal/statement/period"
)

// columnIndices maps the movements-table columns found in a header row.
// A value of -1 means the column is absent.
type columnIndices struct {
	date         int
	description  int
	amountARS    int
	amountUSD    int
	installments int
}

// tableStrategy is the fallback for layouts no line strategy recognizes and
// the only strategy that applies to spreadsheets. It locates a header row by
// keyword (tolerant of accents and naming variants), maps the following rows
// positionally, and applies the shared exclusion and currency rules. Header
// detection resets for every table.
type tableStrategy struct{}

func (tableStrategy) Name() string { return "table" }

func (tableStrategy) Parse(doc *document.Document, ym period.YearMonth) []Row {
	var out []Row

	for _, table := range doc.Tables() {
		cols := columnIndices{date: -1}
		headerFound := false

		for _, row := range table {
			cells := trimCells(row)
			if !anyCell(cells) {
				continue
			}

			if !headerFound {
				if c, ok := findColumnIndices(cells); ok {
					cols = c
					headerFound = true
				}
				continue
			}

			if r, ok := parseTableRow(cells, cols, ym); ok {
				out = append(out, r)
			}
		}
	}

	return out
}

// headerHas reports whether a header cell contains a keyword, folding case
// and accents so "Descripción" and "descripcion" both match. Containment, not
// subsequence: "pesos" must not match "Primeros pasos".
func headerHas(cell, keyword string) bool {
	return strings.Contains(foldHeader(cell), keyword)
}

// foldHeader lowercases a header cell and strips combining marks.
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// findColumnIndices resolves column positions from a candidate header row.
// Date and description are required; without a dedicated local or foreign
// amount column any "monto"/"importe" column serves as the local one.
func findColumnIndices(cells []string) (columnIndices, bool) {
	cols := columnIndices{date: -1, description: -1, amountARS: -1, amountUSD: -1, installments: -1}

	for i, h := range cells {
		if cols.date < 0 && headerHas(h, "fecha") &&
			!headerHas(h, "vencimiento") && !headerHas(h, "cierre") {
			cols.date = i
		}
	}
	for i, h := range cells {
		if cols.description < 0 &&
			(headerHas(h, "descrip") || headerHas(h, "concepto") || headerHas(h, "detalle")) {
			cols.description = i
		}
	}
	for i, h := range cells {
		if cols.amountARS < 0 &&
			((headerHas(h, "monto") && (headerHas(h, "pesos") || headerHas(h, "ars"))) || headerHas(h, "pesos")) {
			cols.amountARS = i
		}
	}
	for i, h := range cells {
		if cols.amountUSD < 0 && headerHas(h, "monto") &&
			(headerHas(h, "dolar") || headerHas(h, "usd")) {
			cols.amountUSD = i
		}
	}
	for i, h := range cells {
		if cols.installments < 0 && headerHas(h, "cuota") {
			cols.installments = i
		}
	}

	if cols.date < 0 || cols.description < 0 {
		return columnIndices{}, false
	}

	if cols.amountARS < 0 && cols.amountUSD < 0 {
		for i, h := range cells {
			if headerHas(h, "monto") || headerHas(h, "importe") {
				cols.amountARS = i
				break
			}
		}
		if cols.amountARS < 0 {
			return columnIndices{}, false
		}
	}

	return cols, true
}

func parseTableRow(cells []string, cols columnIndices, ym period.YearMonth) (Row, bool) {
	date, ok := normalizer.ParseDate(cellAt(cells, cols.date))
	if !ok {
		return Row{}, false
	}

	description := cellAt(cells, cols.description)
	currency, amount, ok := selectCurrency(cellAt(cells, cols.amountARS), cellAt(cells, cols.amountUSD))
	if !ok {
		return Row{}, false
	}

	index, total := normalizer.ParseInstallments(cellAt(cells, cols.installments))
	return buildRow(date, description, currency, index, total, amount, ym)
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func anyCell(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}

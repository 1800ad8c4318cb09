package parser

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/normalizer"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

// Strategy recognizes one provider's statement layout. Strategies are pure
// over their inputs and keep no state between documents.
type Strategy interface {
	Name() string
	Parse(doc *document.Document, ym period.YearMonth) []Row
}

// Chain runs strategies in fixed priority order and accepts the first
// non-empty row set. The table strategy sits last: it is the fallback for
// unrecognized page layouts and the only one that fires on spreadsheets.
type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewChain builds the default provider chain.
func NewChain(logger *slog.Logger) *Chain {
	return &Chain{
		logger: logger,
		strategies: []Strategy{
			nacionVisaStrategy{},
			nacionMastercardStrategy{},
			mercadoPagoAppStrategy{},
			mercadoPagoGenericStrategy{},
			tableStrategy{},
		},
	}
}

// Parse returns the rows of the first strategy that recognizes anything, or
// an empty set when none does.
func (c *Chain) Parse(doc *document.Document, ym period.YearMonth) []Row {
	for _, s := range c.strategies {
		rows := s.Parse(doc, ym)
		if len(rows) > 0 {
			c.logger.Debug("strategy recognized rows", "strategy", s.Name(), "rows", len(rows))
			return rows
		}
	}
	return nil
}

// selectCurrency applies the shared currency rule for rows with a local and a
// foreign amount column: a non-zero ARS amount wins, else a non-zero USD
// amount, else the row is dropped.
func selectCurrency(arsRaw, usdRaw string) (string, decimal.Decimal, bool) {
	if ars, ok := normalizer.ParseMoney(arsRaw); ok && !ars.IsZero() {
		return money.ARS, ars, true
	}
	if usd, ok := normalizer.ParseMoney(usdRaw); ok && !usd.IsZero() {
		return money.USD, usd, true
	}
	return "", decimal.Decimal{}, false
}

// buildRow applies the shared row rules: excluded descriptions and
// non-positive amounts are rejected, amounts carry two decimals.
func buildRow(date time.Time, description, currency string, index, total int, amount decimal.Decimal, ym period.YearMonth) (Row, bool) {
	description = normalizer.CleanDescription(description)
	if description == "" || normalizer.IsExcludedDescription(description) {
		return Row{}, false
	}
	if !amount.IsPositive() {
		return Row{}, false
	}
	return Row{
		PurchaseDate:       date,
		Description:        description,
		Currency:           currency,
		InstallmentIndex:   index,
		InstallmentsTotal:  total,
		InstallmentAmount:  amount.Round(2),
		StatementYearMonth: ym,
	}, true
}

// validDate builds a calendar date, rejecting impossible day/month pairs that
// a regex capture alone cannot rule out.
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func textLines(doc *document.Document) []string {
	var lines []string
	for _, p := range doc.Pages {
		lines = append(lines, p.Lines...)
	}
	return lines
}

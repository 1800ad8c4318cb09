// Package parser recognizes purchase rows inside extracted statement content.
// Each provider lays its movements table out differently, so recognition is a
// chain of independent strategies tried in fixed priority order; the first
// strategy producing any row wins.
package parser

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cartera-app/cartera-api/internal/statement/period"
)

// Row is one normalized purchase line item. Immutable once built; amounts are
// always positive with two decimals (refunds and payments are dropped during
// recognition, never represented).
type Row struct {
	PurchaseDate       time.Time
	Description        string
	Currency           string // money.ARS | money.USD
	InstallmentIndex   int
	InstallmentsTotal  int
	InstallmentAmount  decimal.Decimal
	StatementYearMonth period.YearMonth
}

// Package importer orchestrates a statement import end to end: document
// extraction, closing-month detection, row recognition, dedup and
// persistence.
package importer

import (
	"time"

	"github.com/google/uuid"

	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

// Purchase is one persisted installment row. AmountTotal is the projected
// purchase total (installment amount times the installment count) and
// FirstInstallmentMonth is the statement month the first installment was
// billed in.
type Purchase struct {
	ID                    uuid.UUID
	Provider              string
	CardID                string
	PurchaseDate          time.Time
	Description           string
	Currency              string
	InstallmentIndex      int
	InstallmentsTotal     int
	InstallmentAmount     *money.Money
	AmountTotal           *money.Money
	FirstInstallmentMonth period.YearMonth
	StatementYearMonth    period.YearMonth
	Fingerprint           string
	SourceFile            string
	CreatedAt             time.Time
}

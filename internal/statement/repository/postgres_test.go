package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartera-app/cartera-api/internal/statement/importer"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

func testPurchase() *importer.Purchase {
	return &importer.Purchase{
		ID:                    uuid.New(),
		Provider:              "nacion",
		CardID:                "visa-1234",
		PurchaseDate:          time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC),
		Description:           "REGALO NAVIDAD",
		Currency:              money.ARS,
		InstallmentIndex:      2,
		InstallmentsTotal:     4,
		InstallmentAmount:     money.New(1000000, money.ARS),
		AmountTotal:           money.New(4000000, money.ARS),
		FirstInstallmentMonth: period.YearMonth{Year: 2025, Month: time.December},
		StatementYearMonth:    period.YearMonth{Year: 2026, Month: time.January},
		Fingerprint:           "abc123",
		SourceFile:            "resumen-enero.pdf",
		CreatedAt:             time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPurchaseRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	p := testPurchase()
	mock.ExpectExec(`INSERT INTO purchases`).
		WithArgs(
			p.ID, p.Provider, p.CardID, p.PurchaseDate, p.Description, p.Currency,
			p.InstallmentIndex, p.InstallmentsTotal,
			int64(1000000), int64(4000000),
			"2025-12", "2026-01",
			p.Fingerprint, p.SourceFile, p.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPurchaseRepository(mock)
	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepositoryListByStatementMonth(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	p := testPurchase()
	columns := []string{
		"id", "provider", "card_id", "purchase_date", "description", "currency",
		"installment_index", "installments_total",
		"installment_amount_cents", "amount_total_cents",
		"first_installment_month", "statement_month",
		"fingerprint", "source_file", "created_at",
	}
	mock.ExpectQuery(`SELECT (.+) FROM purchases`).
		WithArgs("nacion", "2026-01").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			p.ID, p.Provider, p.CardID, p.PurchaseDate, p.Description, p.Currency,
			p.InstallmentIndex, p.InstallmentsTotal,
			int64(1000000), int64(4000000),
			"2025-12", "2026-01",
			p.Fingerprint, p.SourceFile, p.CreatedAt,
		))

	repo := NewPurchaseRepository(mock)
	purchases, err := repo.ListByStatementMonth(context.Background(), "nacion",
		period.YearMonth{Year: 2026, Month: time.January})
	require.NoError(t, err)
	require.Len(t, purchases, 1)

	got := purchases[0]
	assert.Equal(t, "REGALO NAVIDAD", got.Description)
	assert.Equal(t, "10000.00 ARS", got.InstallmentAmount.String())
	assert.Equal(t, "40000.00 ARS", got.AmountTotal.String())
	assert.Equal(t, "2025-12", got.FirstInstallmentMonth.String())
	assert.Equal(t, "2026-01", got.StatementYearMonth.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFingerprintLedger(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ledger := NewFingerprintLedger(mock)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("abc123").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	seen, err := ledger.Exists(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, seen)

	payload := []byte(`{"Description":"REGALO NAVIDAD"}`)
	mock.ExpectExec(`INSERT INTO imported_rows`).
		WithArgs("abc123", "nacion", "resumen-enero.pdf", payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, ledger.Record(context.Background(), importer.DedupRecord{
		Provider:    "nacion",
		SourceFile:  "resumen-enero.pdf",
		Fingerprint: "abc123",
		Payload:     payload,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Package repository provides PostgreSQL persistence for imported purchases
// and the fingerprint ledger backing dedup.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cartera-app/cartera-api/internal/statement/importer"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

// DB is the subset of pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PurchaseRepository stores purchases in the purchases table. Amounts are
// stored in minor units (cents) next to their currency code.
type PurchaseRepository struct {
	db DB
}

// NewPurchaseRepository creates a PostgreSQL-backed purchase repository.
func NewPurchaseRepository(db DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create inserts one purchase row.
func (r *PurchaseRepository) Create(ctx context.Context, p *importer.Purchase) error {
	query := `
		INSERT INTO purchases (
			id, provider, card_id, purchase_date, description, currency,
			installment_index, installments_total,
			installment_amount_cents, amount_total_cents,
			first_installment_month, statement_month,
			fingerprint, source_file, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Provider, p.CardID, p.PurchaseDate, p.Description, p.Currency,
		p.InstallmentIndex, p.InstallmentsTotal,
		p.InstallmentAmount.Amount(), p.AmountTotal.Amount(),
		p.FirstInstallmentMonth.String(), p.StatementYearMonth.String(),
		p.Fingerprint, p.SourceFile, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListByStatementMonth returns the purchases a provider billed on one
// statement, ordered by purchase date.
func (r *PurchaseRepository) ListByStatementMonth(ctx context.Context, provider string, ym period.YearMonth) ([]*importer.Purchase, error) {
	query := `
		SELECT id, provider, card_id, purchase_date, description, currency,
			installment_index, installments_total,
			installment_amount_cents, amount_total_cents,
			first_installment_month, statement_month,
			fingerprint, source_file, created_at
		FROM purchases
		WHERE provider = $1 AND statement_month = $2
		ORDER BY purchase_date, description
	`

	rows, err := r.db.Query(ctx, query, provider, ym.String())
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*importer.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func scanPurchase(rows pgx.Rows) (*importer.Purchase, error) {
	var (
		p                            importer.Purchase
		installmentCents, totalCents int64
		firstMonth, statementMonth   string
	)
	err := rows.Scan(
		&p.ID, &p.Provider, &p.CardID, &p.PurchaseDate, &p.Description, &p.Currency,
		&p.InstallmentIndex, &p.InstallmentsTotal,
		&installmentCents, &totalCents,
		&firstMonth, &statementMonth,
		&p.Fingerprint, &p.SourceFile, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}

	p.InstallmentAmount = money.New(installmentCents, p.Currency)
	p.AmountTotal = money.New(totalCents, p.Currency)
	if p.FirstInstallmentMonth, err = period.Parse(firstMonth); err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	if p.StatementYearMonth, err = period.Parse(statementMonth); err != nil {
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	return &p, nil
}

// FingerprintLedger backs dedup with the imported_rows table. The table's
// unique fingerprint index is the authoritative guard, so Record tolerates
// replays with ON CONFLICT DO NOTHING.
type FingerprintLedger struct {
	db DB
}

// NewFingerprintLedger creates a PostgreSQL-backed dedup ledger.
func NewFingerprintLedger(db DB) *FingerprintLedger {
	return &FingerprintLedger{db: db}
}

// Exists reports whether a fingerprint was recorded before.
func (l *FingerprintLedger) Exists(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := l.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM imported_rows WHERE fingerprint = $1)`,
		fingerprint,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("lookup fingerprint: %w", err)
	}
	return exists, nil
}

// Record marks a fingerprint as imported, keeping the provider, source file
// and serialized row next to it.
func (l *FingerprintLedger) Record(ctx context.Context, rec importer.DedupRecord) error {
	_, err := l.db.Exec(ctx,
		`INSERT INTO imported_rows (fingerprint, provider, source_file, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (fingerprint) DO NOTHING`,
		rec.Fingerprint, rec.Provider, rec.SourceFile, rec.Payload,
	)
	if err != nil {
		return fmt.Errorf("record fingerprint: %w", err)
	}
	return nil
}

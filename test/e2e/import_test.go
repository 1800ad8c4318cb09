// Package e2etest provides end-to-end tests for statement import flows.
package e2etest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/importer"
	"github.com/cartera-app/cartera-api/internal/statement/ledger"
	"github.com/cartera-app/cartera-api/internal/statement/parser"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

type memoryRepo struct {
	purchases []*importer.Purchase
}

func (r *memoryRepo) Create(_ context.Context, p *importer.Purchase) error {
	r.purchases = append(r.purchases, p)
	return nil
}

func newService(t *testing.T, repo importer.PurchaseRepository) *importer.Service {
	t.Helper()

	boltLedger, err := ledger.OpenBolt(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = boltLedger.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return importer.NewService(
		document.NewLoader(logger),
		period.Locator{DefaultYear: 2026},
		parser.NewChain(logger),
		repo,
		boltLedger,
		logger,
	)
}

// buildWorkbook writes a spreadsheet statement the way provider exports look:
// a closing-date block followed by a movements table.
func buildWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]string{
		{"Fecha de cierre", ""},
		{"22/01/2026", ""},
		{"", ""},
		{"Fecha", "Descripción", "Cuotas", "Monto en pesos", "Monto en dólares"},
		{"05/12/2025", "REGALO NAVIDAD", "2 de 4", "$10.000,00", ""},
		{"03/01/2026", "SUPERMERCADO DIA", "", "$5.500,50", ""},
		{"04/01/2026", "NETFLIX.COM", "", "", "U$S 12,99"},
		{"06/01/2026", "SU PAGO EN PESOS", "", "-15.000,00", ""},
	}
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, cell))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// TestSpreadsheetImport runs a workbook export through the whole pipeline:
// extraction, closing-month detection, row recognition, dedup and
// installment projection.
func TestSpreadsheetImport(t *testing.T) {
	repo := &memoryRepo{}
	svc := newService(t, repo)

	input := importer.ImportInput{
		Data:       buildWorkbook(t),
		Kind:       document.KindSpreadsheet,
		SourceFile: "resumen-enero.xlsx",
		Provider:   "nacion",
		CardID:     "visa-1234",
	}

	summary, err := svc.ImportDocument(context.Background(), input)
	require.NoError(t, err)

	// The payment line is excluded; the three purchases go through.
	assert.Equal(t, 3, summary.Parsed)
	assert.Equal(t, 3, summary.Created)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, "2026-01", summary.StatementMonth.String())
	require.Len(t, repo.purchases, 3)

	installment := repo.purchases[0]
	assert.Equal(t, "REGALO NAVIDAD", installment.Description)
	assert.Equal(t, money.ARS, installment.Currency)
	assert.Equal(t, 2, installment.InstallmentIndex)
	assert.Equal(t, 4, installment.InstallmentsTotal)
	assert.Equal(t, "10000.00 ARS", installment.InstallmentAmount.String())
	assert.Equal(t, "40000.00 ARS", installment.AmountTotal.String())
	assert.Equal(t, "2025-12", installment.FirstInstallmentMonth.String())

	foreign := repo.purchases[2]
	assert.Equal(t, money.USD, foreign.Currency)
	assert.Equal(t, "12.99 USD", foreign.InstallmentAmount.String())

	t.Run("ReimportSkipsEverything", func(t *testing.T) {
		summary, err := svc.ImportDocument(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Parsed)
		assert.Equal(t, 0, summary.Created)
		assert.Equal(t, 3, summary.Skipped)
		assert.Len(t, repo.purchases, 3)
	})
}

// TestCSVImport covers the semicolon-delimited export path.
func TestCSVImport(t *testing.T) {
	csv := `Fecha de cierre;
22/01/2026;
Fecha;Detalle;Cuotas;Monto en pesos;Monto en dólares
13/01/2026;SENA YPF;;$49.000,00;
`
	repo := &memoryRepo{}
	svc := newService(t, repo)

	summary, err := svc.ImportDocument(context.Background(), importer.ImportInput{
		Data:       []byte(csv),
		Kind:       document.KindSpreadsheet,
		SourceFile: "resumen-enero.csv",
		Provider:   "nacion",
		CardID:     "visa-1234",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	require.Len(t, repo.purchases, 1)
	assert.Equal(t, "SENA YPF", repo.purchases[0].Description)
	assert.Equal(t, "49000.00 ARS", repo.purchases[0].InstallmentAmount.String())
}

// TestUnreadableDocument verifies garbage input surfaces as a typed error.
func TestUnreadableDocument(t *testing.T) {
	svc := newService(t, &memoryRepo{})

	_, err := svc.ImportDocument(context.Background(), importer.ImportInput{
		Data:       []byte("not a real document"),
		Kind:       document.KindPageDocument,
		SourceFile: "broken.pdf",
		Provider:   "nacion",
		CardID:     "visa-1234",
	})
	assert.ErrorIs(t, err, document.ErrDocumentUnreadable)
}

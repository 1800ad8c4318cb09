package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/importer"
	"github.com/cartera-app/cartera-api/internal/statement/ledger"
	"github.com/cartera-app/cartera-api/internal/statement/parser"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/internal/statement/repository"
	"github.com/cartera-app/cartera-api/pkg/db"
	"github.com/cartera-app/cartera-api/pkg/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <statement-file>",
	Short: "Import one statement file",
	Long: `Imports a statement PDF or spreadsheet export, detects its closing
month, recognizes purchase rows and persists the ones not imported before.

With --postgres the rows go to the database and the imported_rows table
backs dedup. Without it, dedup uses a local BoltDB ledger file and the
created rows are printed as JSON lines.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("provider", "", "statement provider (e.g. nacion, mercadopago)")
	importCmd.Flags().String("card-id", "", "card the statement belongs to")
	importCmd.Flags().String("password", "", "PDF password, when protected")
	importCmd.Flags().Bool("strict", false, "fail when no rows are recognized")
	importCmd.Flags().String("ledger", "", "BoltDB dedup ledger path (defaults to IMPORT_LEDGER_PATH)")
	importCmd.Flags().Bool("postgres", false, "persist to PostgreSQL instead of the local ledger")
	importCmd.Flags().String("archive-dir", "", "archive the original file under this directory after import")
	_ = importCmd.MarkFlagRequired("provider")
	_ = importCmd.MarkFlagRequired("card-id")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read statement: %w", err)
	}

	provider, _ := cmd.Flags().GetString("provider")
	cardID, _ := cmd.Flags().GetString("card-id")
	password, _ := cmd.Flags().GetString("password")
	strict, _ := cmd.Flags().GetBool("strict")
	usePostgres, _ := cmd.Flags().GetBool("postgres")

	repo, dedup, cleanup, err := buildStores(cmd, usePostgres)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := importer.NewService(
		document.NewLoader(logger),
		period.Locator{DefaultYear: cfg.Import.DefaultYear},
		parser.NewChain(logger),
		repo,
		dedup,
		logger,
	).WithStrict(strict || cfg.Import.Strict)

	summary, err := svc.ImportDocument(context.Background(), importer.ImportInput{
		Data:       data,
		Kind:       kindFromPath(path),
		Password:   password,
		SourceFile: filepath.Base(path),
		Provider:   provider,
		CardID:     cardID,
	})
	if err != nil {
		return err
	}

	if archiveDir, _ := cmd.Flags().GetString("archive-dir"); archiveDir != "" {
		if err := archiveStatement(archiveDir, provider, summary.StatementMonth.String(), path, data); err != nil {
			return err
		}
	}

	cmd.Printf("parsed=%d created=%d skipped=%d\n", summary.Parsed, summary.Created, summary.Skipped)
	return nil
}

func archiveStatement(dir, provider, statementMonth, path string, data []byte) error {
	archive, err := storage.NewLocalArchive(dir)
	if err != nil {
		return err
	}
	info, err := archive.Save(context.Background(), provider, statementMonth,
		filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("archive statement: %w", err)
	}
	logger.Info("statement archived", "id", info.ID, "path", info.Path)
	return nil
}

// buildStores picks the persistence pair for the run: PostgreSQL repository
// plus imported_rows ledger, or JSON-lines output plus a BoltDB ledger.
func buildStores(cmd *cobra.Command, usePostgres bool) (importer.PurchaseRepository, importer.DedupLedger, func(), error) {
	if usePostgres {
		database, err := openDatabase()
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewPurchaseRepository(database.Pool),
			repository.NewFingerprintLedger(database.Pool),
			database.Close, nil
	}

	ledgerPath, _ := cmd.Flags().GetString("ledger")
	if ledgerPath == "" {
		ledgerPath = cfg.Import.LedgerPath
	}
	boltLedger, err := ledger.OpenBolt(ledgerPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open dedup ledger: %w", err)
	}
	return &jsonLinesRepo{w: cmd.OutOrStdout()}, boltLedger,
		func() { _ = boltLedger.Close() }, nil
}

func openDatabase() (*db.DB, error) {
	return db.New(db.Config{
		DSN:             cfg.Database.DSN(),
		MaxConns:        5,
		MaxConnLifetime: 5 * time.Minute,
	}, logger)
}

// kindFromPath classifies a statement file by extension. Everything that is
// not a spreadsheet export goes through the page-document pipeline.
func kindFromPath(path string) document.Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".xls":
		return document.KindSpreadsheet
	default:
		return document.KindPageDocument
	}
}

// jsonLinesRepo writes created purchases to stdout, one JSON object per line.
type jsonLinesRepo struct {
	w io.Writer
}

func (r *jsonLinesRepo) Create(_ context.Context, p *importer.Purchase) error {
	line, err := json.Marshal(map[string]any{
		"id":                      p.ID,
		"provider":                p.Provider,
		"card_id":                 p.CardID,
		"purchase_date":           p.PurchaseDate.Format("2006-01-02"),
		"description":             p.Description,
		"currency":                p.Currency,
		"installment_index":       p.InstallmentIndex,
		"installments_total":      p.InstallmentsTotal,
		"installment_amount":      p.InstallmentAmount.Decimal().StringFixed(2),
		"amount_total":            p.AmountTotal.Decimal().StringFixed(2),
		"first_installment_month": p.FirstInstallmentMonth.String(),
		"statement_month":         p.StatementYearMonth.String(),
		"fingerprint":             p.Fingerprint,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.w, string(line))
	return err
}

package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cartera-app/cartera-api/internal/statement/document"
	"github.com/cartera-app/cartera-api/internal/statement/parser"
	"github.com/cartera-app/cartera-api/internal/statement/period"
	"github.com/cartera-app/cartera-api/pkg/money"
)

// ErrNoRowsRecognized is returned in strict mode when no strategy recognizes
// a single purchase row in the document.
var ErrNoRowsRecognized = errors.New("no purchase rows recognized")

// PurchaseRepository persists normalized purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, p *Purchase) error
}

// DedupRecord is what the ledger keeps for a persisted row: the fingerprint
// plus the provider, the file it came from and the serialized recognized row,
// so a stored fingerprint can always be traced back to its source.
type DedupRecord struct {
	Provider    string
	SourceFile  string
	Fingerprint string
	Payload     []byte
}

// DedupLedger answers whether a row fingerprint was imported before and
// records the ones that go through.
type DedupLedger interface {
	Exists(ctx context.Context, fingerprint string) (bool, error)
	Record(ctx context.Context, rec DedupRecord) error
}

// ImportInput carries one statement document and its ownership context.
type ImportInput struct {
	Data       []byte
	Kind       document.Kind
	Password   string
	SourceFile string
	Provider   string
	CardID     string
}

// Summary reports the outcome of one import: rows recognized, rows
// persisted and rows skipped as already imported.
type Summary struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Parsed  int `json:"parsed"`

	// StatementMonth is the closing month the rows were attributed to.
	StatementMonth period.YearMonth `json:"-"`
}

// Service runs the import pipeline.
type Service struct {
	loader  *document.Loader
	locator period.Locator
	chain   *parser.Chain
	repo    PurchaseRepository
	ledger  DedupLedger
	strict  bool
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates an import service.
func NewService(loader *document.Loader, locator period.Locator, chain *parser.Chain, repo PurchaseRepository, ledger DedupLedger, logger *slog.Logger) *Service {
	return &Service{
		loader:  loader,
		locator: locator,
		chain:   chain,
		repo:    repo,
		ledger:  ledger,
		logger:  logger,
		tracer:  otel.Tracer("statement-importer"),
	}
}

// WithStrict makes ImportDocument fail when a document yields zero rows
// instead of returning an empty summary.
func (s *Service) WithStrict(strict bool) *Service {
	s.strict = strict
	return s
}

// ImportDocument loads a statement, detects its closing month, recognizes
// purchase rows and persists the ones not seen before. Already-imported rows
// are counted as skipped, so running the same document twice creates nothing
// new.
func (s *Service) ImportDocument(ctx context.Context, input ImportInput) (Summary, error) {
	ctx, span := s.tracer.Start(ctx, "importer.ImportDocument", trace.WithAttributes(
		attribute.String("provider", input.Provider),
		attribute.String("source_file", input.SourceFile),
	))
	defer span.End()

	doc, err := s.loader.Load(input.Data, input.Kind, input.Password)
	if err != nil {
		importsTotal.WithLabelValues(input.Provider, "error").Inc()
		span.RecordError(err)
		return Summary{}, fmt.Errorf("load document: %w", err)
	}

	ym, err := s.locateMonth(doc)
	if err != nil {
		importsTotal.WithLabelValues(input.Provider, "error").Inc()
		span.RecordError(err)
		return Summary{}, err
	}
	span.SetAttributes(attribute.String("statement_month", ym.String()))

	rows := s.chain.Parse(doc, ym)
	summary := Summary{Parsed: len(rows), StatementMonth: ym}
	if len(rows) == 0 {
		s.logger.Warn("no rows recognized",
			"source_file", input.SourceFile, "statement_month", ym.String())
		if s.strict {
			importsTotal.WithLabelValues(input.Provider, "error").Inc()
			return Summary{}, ErrNoRowsRecognized
		}
		importsTotal.WithLabelValues(input.Provider, "ok").Inc()
		return summary, nil
	}

	for _, row := range rows {
		fingerprint := Fingerprint(input.Provider, input.CardID, row)

		seen, err := s.ledger.Exists(ctx, fingerprint)
		if err != nil {
			importsTotal.WithLabelValues(input.Provider, "error").Inc()
			span.RecordError(err)
			return summary, fmt.Errorf("check fingerprint: %w", err)
		}
		if seen {
			summary.Skipped++
			rowsSkipped.WithLabelValues(input.Provider).Inc()
			continue
		}

		purchase := buildPurchase(input, row, fingerprint)
		if err := s.repo.Create(ctx, purchase); err != nil {
			importsTotal.WithLabelValues(input.Provider, "error").Inc()
			span.RecordError(err)
			return summary, fmt.Errorf("create purchase: %w", err)
		}
		payload, _ := json.Marshal(row)
		rec := DedupRecord{
			Provider:    input.Provider,
			SourceFile:  input.SourceFile,
			Fingerprint: fingerprint,
			Payload:     payload,
		}
		if err := s.ledger.Record(ctx, rec); err != nil {
			importsTotal.WithLabelValues(input.Provider, "error").Inc()
			span.RecordError(err)
			return summary, fmt.Errorf("record fingerprint: %w", err)
		}
		summary.Created++
		rowsCreated.WithLabelValues(input.Provider).Inc()
	}

	importsTotal.WithLabelValues(input.Provider, "ok").Inc()
	s.logger.Info("statement imported",
		"source_file", input.SourceFile,
		"statement_month", ym.String(),
		"parsed", summary.Parsed,
		"created", summary.Created,
		"skipped", summary.Skipped)
	return summary, nil
}

// locateMonth detects the statement closing month. Spreadsheets carry it in
// the grid next to a "fecha de cierre" label; page documents carry it in an
// anchor phrase in the extracted text.
func (s *Service) locateMonth(doc *document.Document) (period.YearMonth, error) {
	if doc.Kind == document.KindSpreadsheet {
		if ym, err := s.locator.FromGrid(doc.Grid()); err == nil {
			return ym, nil
		}
	}
	return s.locator.FromText(doc.Text())
}

func buildPurchase(input ImportInput, row parser.Row, fingerprint string) *Purchase {
	installment := money.NewFromDecimal(row.InstallmentAmount, row.Currency)
	return &Purchase{
		ID:                    uuid.New(),
		Provider:              input.Provider,
		CardID:                input.CardID,
		PurchaseDate:          row.PurchaseDate,
		Description:           row.Description,
		Currency:              row.Currency,
		InstallmentIndex:      row.InstallmentIndex,
		InstallmentsTotal:     row.InstallmentsTotal,
		InstallmentAmount:     installment,
		AmountTotal:           installment.Multiply(int64(row.InstallmentsTotal)),
		FirstInstallmentMonth: row.StatementYearMonth.AddMonths(-(row.InstallmentIndex - 1)),
		StatementYearMonth:    row.StatementYearMonth,
		Fingerprint:           fingerprint,
		SourceFile:            input.SourceFile,
		CreatedAt:             time.Now().UTC(),
	}
}

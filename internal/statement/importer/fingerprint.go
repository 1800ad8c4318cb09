package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/cartera-app/cartera-api/internal/statement/parser"
)

// Fingerprint derives a stable identity for a recognized row within a
// provider and card. Two rows with the same normalized fields always produce
// the same digest, so re-importing a statement is a no-op.
//
// The fields go through a JSON object because encoding/json writes map keys
// in sorted order, which keeps the serialization deterministic.
func Fingerprint(provider, cardID string, row parser.Row) string {
	payload, _ := json.Marshal(map[string]any{
		"provider":           provider,
		"card_id":            cardID,
		"purchase_date":      row.PurchaseDate.Format("2006-01-02"),
		"description":        row.Description,
		"currency":           row.Currency,
		"installment_index":  row.InstallmentIndex,
		"installments_total": row.InstallmentsTotal,
		"installment_amount": row.InstallmentAmount.StringFixed(2),
		"statement_month":    row.StatementYearMonth.String(),
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

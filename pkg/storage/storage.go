// Package storage archives original statement files so an import can always
// be traced back to the document it came from.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about an archived statement file
type FileInfo struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Size           int64     `json:"size"`
	Provider       string    `json:"provider"`
	StatementMonth string    `json:"statement_month"`
	Path           string    `json:"path"` // Internal storage path
	ArchivedAt     time.Time `json:"archived_at"`
}

// Archive defines the interface for statement file archival
type Archive interface {
	// Save stores a statement file under its provider and statement month
	Save(ctx context.Context, provider, statementMonth, filename string, r io.Reader) (*FileInfo, error)

	// Open retrieves an archived file by its ID
	Open(ctx context.Context, provider, statementMonth string, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error)

	// List returns all archived files for a provider and statement month
	List(ctx context.Context, provider, statementMonth string) ([]*FileInfo, error)
}

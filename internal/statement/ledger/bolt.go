// Package ledger provides a local, file-backed dedup ledger for running
// imports without a database.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/cartera-app/cartera-api/internal/statement/importer"
)

const bucketName = "imported_rows"

type entry struct {
	Provider   string          `json:"provider"`
	SourceFile string          `json:"source_file"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	ImportedAt time.Time       `json:"imported_at"`
}

// BoltLedger stores row fingerprints in a BoltDB bucket keyed by the
// fingerprint digest.
type BoltLedger struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the ledger file at path.
func OpenBolt(path string) (*BoltLedger, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// Exists reports whether a fingerprint was recorded before.
func (l *BoltLedger) Exists(_ context.Context, fingerprint string) (bool, error) {
	var found bool
	err := l.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket([]byte(bucketName)).Get([]byte(fingerprint)) != nil
		return nil
	})
	return found, err
}

// Record marks a fingerprint as imported, keeping the provider, source file
// and serialized row next to it.
func (l *BoltLedger) Record(_ context.Context, rec importer.DedupRecord) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(entry{
			Provider:   rec.Provider,
			SourceFile: rec.SourceFile,
			Payload:    json.RawMessage(rec.Payload),
			ImportedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("marshaling entry: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(rec.Fingerprint), data)
	})
}

// Close closes the underlying database file.
func (l *BoltLedger) Close() error {
	return l.db.Close()
}

// Package backup exports the transaction ledger to a portable JSON document
// and restores it, replacing the store contents wholesale.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/dazzifederico-hub/budcal/internal/store"
)

// FormatVersion identifies the backup document layout.
const FormatVersion = 1

// Document is the on-disk backup shape.
type Document struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Export writes every stored transaction to w as a JSON document.
func Export(ctx context.Context, st store.TransactionStore, w io.Writer) error {
	txs, err := st.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("export: load transactions: %w", err)
	}

	doc := Document{
		Version:      FormatVersion,
		ExportedAt:   time.Now().UTC(),
		Transactions: txs,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}

// Import reads a backup document from r and replaces the full store contents
// with it. The replace is transactional: a malformed document leaves the
// store untouched.
func Import(ctx context.Context, st store.TransactionStore, r io.Reader) (int, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("import: decode: %w", err)
	}
	if doc.Version != FormatVersion {
		return 0, fmt.Errorf("import: unsupported backup version %d", doc.Version)
	}
	for _, tx := range doc.Transactions {
		if tx.ID == "" {
			return 0, fmt.Errorf("import: transaction without ID")
		}
	}

	if err := st.Replace(ctx, doc.Transactions); err != nil {
		return 0, fmt.Errorf("import: replace store: %w", err)
	}
	return len(doc.Transactions), nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Single-table schema. Amounts are stored as decimal strings to avoid float
// drift; position preserves insertion order across GetAll.
const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id                TEXT PRIMARY KEY,
	date              TEXT NOT NULL,
	amount            TEXT NOT NULL,
	kind              TEXT NOT NULL,
	description       TEXT NOT NULL,
	origin            TEXT NOT NULL,
	external_event_id TEXT NOT NULL DEFAULT '',
	calendar_name     TEXT NOT NULL DEFAULT '',
	position          INTEGER NOT NULL
);
`

// SQLite is a sqlite-backed implementation of TransactionStore.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the ledger database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// GetAll implements TransactionStore.
func (s *SQLite) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, amount, kind, description, origin, external_event_id, calendar_name
		 FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// Get implements TransactionStore.
func (s *SQLite) Get(ctx context.Context, id string) (domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, amount, kind, description, origin, external_event_id, calendar_name
		 FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return domain.Transaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

// Put implements TransactionStore. An existing transaction keeps its position
// in the ledger; a new one is appended.
func (s *SQLite) Put(ctx context.Context, tx domain.Transaction) (string, error) {
	if tx.ID == "" {
		return "", fmt.Errorf("transaction ID is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, date, amount, kind, description, origin, external_event_id, calendar_name, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM transactions))
		 ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			amount = excluded.amount,
			kind = excluded.kind,
			description = excluded.description,
			origin = excluded.origin,
			external_event_id = excluded.external_event_id,
			calendar_name = excluded.calendar_name`,
		tx.ID, tx.Date.Format(time.RFC3339), tx.Amount.String(), string(tx.Kind),
		tx.Description, string(tx.Origin), tx.ExternalEventID, tx.CalendarName)
	if err != nil {
		return "", fmt.Errorf("put transaction %s: %w", tx.ID, err)
	}
	return tx.ID, nil
}

// Delete implements TransactionStore.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear implements TransactionStore.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	return nil
}

// Replace implements TransactionStore. The wipe and the reinsert run inside
// one database transaction, so a failure mid-replace rolls back to the prior
// contents instead of leaving the ledger empty.
func (s *SQLite) Replace(ctx context.Context, txs []domain.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("replace: clear: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO transactions
		 (id, date, amount, kind, description, origin, external_event_id, calendar_name, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("replace: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		if tx.ID == "" {
			return fmt.Errorf("replace: transaction ID is required")
		}
		_, err := stmt.ExecContext(ctx,
			tx.ID, tx.Date.Format(time.RFC3339), tx.Amount.String(), string(tx.Kind),
			tx.Description, string(tx.Origin), tx.ExternalEventID, tx.CalendarName, i+1)
		if err != nil {
			return fmt.Errorf("replace: insert transaction %s: %w", tx.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// Close implements TransactionStore.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var (
		tx                 domain.Transaction
		dateRaw, amountRaw string
		kindRaw, originRaw string
	)
	err := row.Scan(&tx.ID, &dateRaw, &amountRaw, &kindRaw, &tx.Description, &originRaw, &tx.ExternalEventID, &tx.CalendarName)
	if err != nil {
		return domain.Transaction{}, err
	}

	tx.Date, err = time.Parse(time.RFC3339, dateRaw)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateRaw, err)
	}
	tx.Amount, err = decimal.NewFromString(amountRaw)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("parse stored amount %q: %w", amountRaw, err)
	}
	tx.Kind = domain.Kind(kindRaw)
	tx.Origin = domain.Origin(originRaw)
	return tx, nil
}

var _ TransactionStore = (*SQLite)(nil)

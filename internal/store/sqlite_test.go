package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_RoundTrip(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	tx := domain.Transaction{
		ID:              "e1",
		Date:            time.Date(2026, time.February, 3, 18, 30, 0, 0, time.UTC),
		Amount:          decimal.RequireFromString("150.50"),
		Kind:            domain.KindIncome,
		Description:     "Stipendio",
		Origin:          domain.OriginCalendar,
		ExternalEventID: "e1",
		CalendarName:    "Salary",
	}
	if _, err := s.Put(ctx, tx); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "e1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Date.Equal(tx.Date) {
		t.Errorf("Date = %v, want %v", got.Date, tx.Date)
	}
	if !got.Amount.Equal(tx.Amount) {
		t.Errorf("Amount = %s, want %s", got.Amount, tx.Amount)
	}
	if got.Kind != tx.Kind || got.Origin != tx.Origin {
		t.Errorf("Kind/Origin = %v/%v, want %v/%v", got.Kind, got.Origin, tx.Kind, tx.Origin)
	}
	if got.ExternalEventID != "e1" || got.CalendarName != "Salary" {
		t.Errorf("provenance fields lost: %+v", got)
	}
}

func TestSQLite_GetNotFound(t *testing.T) {
	s := openTestDB(t)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLite_UpsertKeepsPosition(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"t1", "t2", "t3"} {
		tx := domain.Transaction{
			ID:     id,
			Date:   time.Now().UTC().Truncate(time.Second),
			Amount: decimal.NewFromInt(1),
			Kind:   domain.KindExpense,
			Origin: domain.OriginCalendar,
		}
		if _, err := s.Put(ctx, tx); err != nil {
			t.Fatalf("Put %s failed: %v", id, err)
		}
	}

	edited := domain.Transaction{
		ID:          "t1",
		Date:        time.Now().UTC().Truncate(time.Second),
		Amount:      decimal.NewFromInt(9),
		Kind:        domain.KindExpense,
		Description: "edited",
		Origin:      domain.OriginManual,
	}
	if _, err := s.Put(ctx, edited); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	txs, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	if txs[0].ID != "t1" || txs[0].Description != "edited" {
		t.Errorf("upsert moved or lost the row: %+v", txs[0])
	}
}

func TestSQLite_ReplaceAndDelete(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	old := domain.Transaction{
		ID:     "old",
		Date:   time.Now().UTC().Truncate(time.Second),
		Amount: decimal.NewFromInt(1),
		Kind:   domain.KindExpense,
		Origin: domain.OriginCalendar,
	}
	if _, err := s.Put(ctx, old); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	replacement := []domain.Transaction{
		{ID: "m1", Date: time.Now().UTC().Truncate(time.Second), Amount: decimal.NewFromInt(2), Kind: domain.KindIncome, Origin: domain.OriginManual},
		{ID: "c1", Date: time.Now().UTC().Truncate(time.Second), Amount: decimal.NewFromInt(3), Kind: domain.KindExpense, Origin: domain.OriginCalendar},
	}
	if err := s.Replace(ctx, replacement); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	txs, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(txs) != 2 || txs[0].ID != "m1" || txs[1].ID != "c1" {
		t.Fatalf("contents after replace = %+v", txs)
	}

	if err := s.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

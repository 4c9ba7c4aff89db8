package backup

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/dazzifederico-hub/budcal/internal/store"
	"github.com/shopspring/decimal"
)

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := store.NewMemory()

	manual := domain.Transaction{
		ID:          "m1",
		Date:        time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("12.50"),
		Kind:        domain.KindExpense,
		Description: "Pranzo",
		Origin:      domain.OriginManual,
	}
	derived := domain.Transaction{
		ID:              "e1",
		Date:            time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(2000),
		Kind:            domain.KindIncome,
		Origin:          domain.OriginCalendar,
		ExternalEventID: "e1",
		CalendarName:    "Salary",
	}
	src.Put(ctx, manual)
	src.Put(ctx, derived)

	var buf bytes.Buffer
	if err := Export(ctx, src, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := store.NewMemory()
	count, err := Import(ctx, dst, &buf)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Import restored %d transactions, want 2", count)
	}

	got, err := dst.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Amount.Equal(manual.Amount) || got.Origin != domain.OriginManual {
		t.Errorf("restored manual transaction changed: %+v", got)
	}

	got, err = dst.Get(ctx, "e1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ExternalEventID != "e1" || got.CalendarName != "Salary" {
		t.Errorf("restored derived transaction lost provenance: %+v", got)
	}
}

func TestImport_BadDocumentLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	st.Put(ctx, domain.Transaction{
		ID:     "keep",
		Date:   time.Now(),
		Amount: decimal.NewFromInt(1),
		Kind:   domain.KindExpense,
		Origin: domain.OriginManual,
	})

	if _, err := Import(ctx, st, strings.NewReader("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := Import(ctx, st, strings.NewReader(`{"version":99,"transactions":[]}`)); err == nil {
		t.Fatal("expected version error")
	}

	txs, _ := st.GetAll(ctx)
	if len(txs) != 1 || txs[0].ID != "keep" {
		t.Errorf("store mutated by failed import: %+v", txs)
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	// KindIncome marks money coming in.
	KindIncome Kind = "income"
	// KindExpense marks money going out.
	KindExpense Kind = "expense"
	// KindUnclassified marks an event whose text matched no rule.
	// Unclassified transactions are never persisted; the value exists only
	// as an in-flight resolution result.
	KindUnclassified Kind = "unclassified"
)

// Origin records where a transaction came from. It governs overwrite
// precedence during sync: manual records are carried forward verbatim,
// calendar records are rebuilt on every run.
type Origin string

const (
	// OriginManual marks a transaction entered or edited by the user.
	OriginManual Origin = "manual"
	// OriginCalendar marks a transaction derived from a calendar event.
	OriginCalendar Origin = "calendar"
)

// UntitledDescription is the placeholder used when a calendar event has no title.
const UntitledDescription = "Evento senza titolo"

// Transaction is one ledger entry, either user-entered or derived from a
// calendar event. For derived transactions ID equals the source event's
// identifier, so re-deriving the same event is idempotent and editing a
// derived transaction keeps its identity while flipping Origin to manual.
type Transaction struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Kind            Kind            `json:"kind"`
	Description     string          `json:"description"`
	Origin          Origin          `json:"origin"`
	ExternalEventID string          `json:"external_event_id,omitempty"`
	CalendarName    string          `json:"calendar_name,omitempty"`
}

// IsManual reports whether the transaction is immune to sync rewrites.
func (t Transaction) IsManual() bool {
	return t.Origin == OriginManual
}

// Summary aggregates a transaction list into income/expense totals.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// Summarize computes totals over a set of transactions.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			s.Income = s.Income.Add(tx.Amount)
		case KindExpense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

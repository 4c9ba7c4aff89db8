package rules

import (
	"testing"

	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantKind   domain.Kind
		wantAmount string
		wantNone   bool
	}{
		{
			name:       "income with decimal comma",
			text:       "Entrata: 150,50",
			wantKind:   domain.KindIncome,
			wantAmount: "150.50",
		},
		{
			name:       "income with decimal dot",
			text:       "Entrata: 150.50",
			wantKind:   domain.KindIncome,
			wantAmount: "150.50",
		},
		{
			name:       "income with euro sign",
			text:       "entrata €2000",
			wantKind:   domain.KindIncome,
			wantAmount: "2000",
		},
		{
			name:       "english income keyword",
			text:       "Income 1200",
			wantKind:   domain.KindIncome,
			wantAmount: "1200",
		},
		{
			name:       "italian plural income",
			text:       "incassi 75,5",
			wantKind:   domain.KindIncome,
			wantAmount: "75.5",
		},
		{
			name:       "expense keyword",
			text:       "uscita 30",
			wantKind:   domain.KindExpense,
			wantAmount: "30",
		},
		{
			name:       "expense with separators",
			text:       "Spesa: €12.99",
			wantKind:   domain.KindExpense,
			wantAmount: "12.99",
		},
		{
			name:       "payment keyword",
			text:       "pagamento 45",
			wantKind:   domain.KindExpense,
			wantAmount: "45",
		},
		{
			name:       "income wins when both phrasings appear",
			text:       "uscita 10 entrata 20",
			wantKind:   domain.KindIncome,
			wantAmount: "20",
		},
		{
			name:       "case insensitive",
			text:       "ENTRATA 99",
			wantKind:   domain.KindIncome,
			wantAmount: "99",
		},
		{
			name:       "keyword buried in longer text",
			text:       "Stipendio mensile - entrata 1800 - ricorrente",
			wantKind:   domain.KindIncome,
			wantAmount: "1800",
		},
		{
			name:       "zero amount still parses",
			text:       "Uscita 0",
			wantKind:   domain.KindExpense,
			wantAmount: "0",
		},
		{
			name:     "no keyword",
			text:     "Team lunch",
			wantNone: true,
		},
		{
			name:     "keyword without number",
			text:     "entrata prevista",
			wantNone: true,
		},
		{
			name:     "empty text",
			text:     "",
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text)
			if tt.wantNone {
				if got != nil {
					t.Fatalf("Parse(%q) = %+v, want nil", tt.text, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Parse(%q) = nil, want a rule", tt.text)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Parse(%q).Kind = %v, want %v", tt.text, got.Kind, tt.wantKind)
			}
			want := decimal.RequireFromString(tt.wantAmount)
			if !got.Amount.Equal(want) {
				t.Errorf("Parse(%q).Amount = %s, want %s", tt.text, got.Amount, want)
			}
		})
	}
}

func TestParse_CommaAndDotAreIdentical(t *testing.T) {
	comma := Parse("Entrata: 150,50")
	dot := Parse("Entrata: 150.50")
	if comma == nil || dot == nil {
		t.Fatal("expected both variants to parse")
	}
	if !comma.Amount.Equal(dot.Amount) {
		t.Errorf("comma amount %s != dot amount %s", comma.Amount, dot.Amount)
	}
}

// Package rules implements the free-text budget rule language: parsing
// income/expense tags out of calendar text and resolving which rule applies
// to a given event.
package rules

import (
	"regexp"
	"strings"

	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/shopspring/decimal"
)

// Rule is the result of parsing a text fragment: a classification plus an
// amount. Rules are ephemeral values, never persisted.
type Rule struct {
	Kind   domain.Kind
	Amount decimal.Decimal
}

// Keyword families are matched case-insensitively. The Italian stems cover
// singular/plural variants (entrata/entrate/entratei is deliberately loose,
// mirroring how users actually tag their calendars). The amount may be
// preceded by separators and an optional euro sign, and uses either a dot
// or a comma as decimal separator.
var (
	incomeRe  = regexp.MustCompile(`(?i)(?:entrat[aei]|income|ricav[oi]|incass[oi])[\s:.]*€?\s*(\d+[.,]?\d*)`)
	expenseRe = regexp.MustCompile(`(?i)(?:uscit[aei]|spes[ae]|expense|cost[oi]|pagament[oi])[\s:.]*€?\s*(\d+[.,]?\d*)`)
)

// Parse scans text for a budget tag and returns the rule it encodes, or nil
// when no keyword+amount pair is present. The income family is tried first,
// so a fragment somehow containing both phrasings yields an income rule.
// No match is the common case and is not an error.
func Parse(text string) *Rule {
	if text == "" {
		return nil
	}
	if m := incomeRe.FindStringSubmatch(text); m != nil {
		if amt, ok := parseAmount(m[1]); ok {
			return &Rule{Kind: domain.KindIncome, Amount: amt}
		}
	}
	if m := expenseRe.FindStringSubmatch(text); m != nil {
		if amt, ok := parseAmount(m[1]); ok {
			return &Rule{Kind: domain.KindExpense, Amount: amt}
		}
	}
	return nil
}

// parseAmount normalizes the decimal separator and parses the number.
// A trailing bare separator ("150.") is tolerated because the tag regex
// admits it.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(raw, ",", ".")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return decimal.Zero, false
	}
	amt, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return amt, true
}

package rules

import (
	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultForCalendar computes a calendar's default rule: its description is
// parsed first, and only when that yields nothing is the display name tried.
func DefaultForCalendar(description, name string) *Rule {
	if r := Parse(description); r != nil {
		return r
	}
	return Parse(name)
}

// Resolve decides an event's effective classification. A rule found in the
// event's own text is authoritative; otherwise the calendar default applies;
// otherwise the event is unclassified with amount zero.
func Resolve(calendarDefault *Rule, eventText string) (domain.Kind, decimal.Decimal) {
	if r := Parse(eventText); r != nil {
		return r.Kind, r.Amount
	}
	if calendarDefault != nil {
		return calendarDefault.Kind, calendarDefault.Amount
	}
	return domain.KindUnclassified, decimal.Zero
}

package sync

import (
	"context"
	"fmt"

	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/dazzifederico-hub/budcal/internal/logger"
	"github.com/dazzifederico-hub/budcal/internal/rules"
)

// RuleNoneDetected is the marker reported for a calendar with no resolvable
// default rule.
const RuleNoneDetected = "NONE DETECTED"

// CalendarDiagnostic reports what one calendar resolves to: the description
// text actually read and the default rule detected from it, if any. It is
// the debugging surface for "why did my sync create nothing" questions.
type CalendarDiagnostic struct {
	CalendarName    string `json:"calendar_name"`
	CalendarID      string `json:"calendar_id"`
	DescriptionUsed string `json:"description_used"`
	RuleDetected    string `json:"rule_detected"`
}

// Diagnose inspects every calendar and reports the default rule each one
// resolves to, using the same detail-then-list description fallback as Sync.
// It is read-only and never touches the transaction store.
func (e *Engine) Diagnose(ctx context.Context) ([]CalendarDiagnostic, error) {
	log := logger.FromContext(ctx)

	calendars, err := e.cal.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate calendars: %w", err)
	}

	diagnostics := make([]CalendarDiagnostic, 0, len(calendars))
	for _, cal := range calendars {
		description := cal.Description
		detail, err := e.cal.GetCalendarDetail(ctx, cal.ID)
		if err != nil {
			log.Debug().
				Err(err).
				Str("calendar", cal.Name).
				Msg("Calendar detail unavailable, using list-level description")
		} else if detail != "" {
			description = detail
		}

		ruleDetected := RuleNoneDetected
		if r := rules.Parse(description); r != nil {
			ruleDetected = fmt.Sprintf("FROM DESCRIPTION (%s €%s)", kindLabel(r.Kind), r.Amount.String())
		} else if r := rules.Parse(cal.Name); r != nil {
			ruleDetected = fmt.Sprintf("FROM NAME (%s €%s)", kindLabel(r.Kind), r.Amount.String())
		}

		diagnostics = append(diagnostics, CalendarDiagnostic{
			CalendarName:    cal.Name,
			CalendarID:      cal.ID,
			DescriptionUsed: description,
			RuleDetected:    ruleDetected,
		})
	}

	log.Info().Int("calendar_count", len(diagnostics)).Msg("Calendar diagnostics collected")
	return diagnostics, nil
}

func kindLabel(k domain.Kind) string {
	if k == domain.KindIncome {
		return "income"
	}
	return "expense"
}

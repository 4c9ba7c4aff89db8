// Package sync drives the calendar-to-ledger reconciliation: it classifies
// calendar events through the budget rule language and rebuilds the derived
// slice of the transaction store while carrying manual records forward
// untouched.
package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/calendar"
	"github.com/dazzifederico-hub/budcal/internal/domain"
	"github.com/dazzifederico-hub/budcal/internal/logger"
	"github.com/dazzifederico-hub/budcal/internal/rules"
	"github.com/dazzifederico-hub/budcal/internal/store"
)

// Report summarizes one sync run.
type Report struct {
	// TotalFound is the number of events scanned across all calendars.
	TotalFound int `json:"totalFound"`
	// CalendarsScanned is the number of calendars enumerated.
	CalendarsScanned int `json:"calendarsScanned"`
	// CreatedTransactions is the number of derived transactions written.
	CreatedTransactions int `json:"createdTransactions"`
	// Rules lists the active default rule of each calendar that has one,
	// one human-readable line per calendar.
	Rules []string `json:"rules"`
	// SkippedCalendars names calendars whose event listing failed and were
	// therefore left out of this run.
	SkippedCalendars []string `json:"skippedCalendars,omitempty"`
}

// Engine reconciles calendar events against the transaction store. Both
// collaborators are injected so the engine can run against fakes in tests.
//
// The engine is single-writer: callers must not run two syncs concurrently
// against the same store.
type Engine struct {
	cal   calendar.Service
	store store.TransactionStore
	now   func() time.Time
}

// NewEngine creates a reconciliation engine over the given calendar source
// and transaction store.
func NewEngine(cal calendar.Service, st store.TransactionStore) *Engine {
	return &Engine{
		cal:   cal,
		store: st,
		now:   time.Now,
	}
}

// Sync runs one reconciliation pass over the given time window. A zero
// window defaults to one year in the past through one year in the future.
//
// Manual transactions are preserved verbatim. An event whose ID is pinned by
// a manual transaction is considered already represented and is not
// re-derived. Failure to enumerate calendars aborts the sync with no store
// mutation; failure to list one calendar's events skips that calendar and
// the sync continues. With dryRun set, the computed ledger is reported but
// not written.
func (e *Engine) Sync(ctx context.Context, window calendar.Window, dryRun bool) (*Report, error) {
	log := logger.FromContext(ctx)

	if window.Min.IsZero() && window.Max.IsZero() {
		window = calendar.DefaultWindow(e.now())
	}

	log.Info().
		Time("time_min", window.Min).
		Time("time_max", window.Max).
		Bool("dry_run", dryRun).
		Msg("Starting calendar sync")

	existing, err := e.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored transactions: %w", err)
	}

	// Partition the ledger: only the manual slice survives a sync.
	var manual []domain.Transaction
	manualEventIDs := make(map[string]bool)
	for _, tx := range existing {
		if tx.IsManual() {
			manual = append(manual, tx)
			if tx.ExternalEventID != "" {
				manualEventIDs[tx.ExternalEventID] = true
			}
		}
	}

	calendars, err := e.cal.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate calendars: %w", err)
	}

	log.Info().
		Int("calendar_count", len(calendars)).
		Int("manual_count", len(manual)).
		Msg("Retrieved calendar list")

	report := &Report{
		CalendarsScanned: len(calendars),
		Rules:            []string{},
	}
	var derived []domain.Transaction

	for _, cal := range calendars {
		calDefault := e.calendarDefault(ctx, cal)
		if calDefault != nil {
			report.Rules = append(report.Rules, ruleLine(cal.Name, calDefault))
		}

		if err := e.scanCalendar(ctx, cal, calDefault, window, manualEventIDs, report, &derived); err != nil {
			// One broken calendar must not abort the whole sync.
			log.Warn().
				Err(err).
				Str("calendar", cal.Name).
				Msg("Could not read calendar, skipping")
			report.SkippedCalendars = append(report.SkippedCalendars, cal.Name)
		}
	}

	report.CreatedTransactions = len(derived)

	if dryRun {
		log.Info().
			Int("manual", len(manual)).
			Int("derived", len(derived)).
			Msg("[DRY RUN] Would replace ledger")
		return report, nil
	}

	final := make([]domain.Transaction, 0, len(manual)+len(derived))
	final = append(final, manual...)
	final = append(final, derived...)
	if err := e.store.Replace(ctx, final); err != nil {
		return nil, fmt.Errorf("replace ledger: %w", err)
	}

	log.Info().
		Int("total_found", report.TotalFound).
		Int("calendars_scanned", report.CalendarsScanned).
		Int("created", report.CreatedTransactions).
		Int("skipped_calendars", len(report.SkippedCalendars)).
		Msg("Calendar sync completed")

	return report, nil
}

// calendarDefault resolves a calendar's default rule. The detail-level
// description is preferred; fetching it is allowed to fail, in which case
// the summary-level description from the list call is used. When the
// description yields no rule the display name is tried.
func (e *Engine) calendarDefault(ctx context.Context, cal calendar.Calendar) *rules.Rule {
	log := logger.FromContext(ctx)

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

	return rules.DefaultForCalendar(description, cal.Name)
}

// scanCalendar pages through one calendar's events and appends candidate
// transactions to derived. Events pinned by a manual transaction are skipped,
// as are unclassified results and non-positive amounts.
func (e *Engine) scanCalendar(ctx context.Context, cal calendar.Calendar, calDefault *rules.Rule, window calendar.Window, manualEventIDs map[string]bool, report *Report, derived *[]domain.Transaction) error {
	pageToken := ""
	for {
		page, err := e.cal.ListEvents(ctx, cal.ID, window, pageToken)
		if err != nil {
			return err
		}
		report.TotalFound += len(page.Items)

		for _, event := range page.Items {
			if manualEventIDs[event.ID] {
				// A manual edit stands; do not re-derive this event.
				continue
			}

			eventText := strings.TrimSpace(event.Title + " " + event.Description)
			kind, amount := rules.Resolve(calDefault, eventText)
			if kind == domain.KindUnclassified || amount.Sign() <= 0 {
				continue
			}

			description := event.Title
			if description == "" {
				description = domain.UntitledDescription
			}

			*derived = append(*derived, domain.Transaction{
				ID:              event.ID,
				Date:            event.Start,
				Amount:          amount,
				Kind:            kind,
				Description:     description,
				Origin:          domain.OriginCalendar,
				ExternalEventID: event.ID,
				CalendarName:    cal.Name,
			})
		}

		if page.NextPageToken == "" {
			return nil
		}
		pageToken = page.NextPageToken
	}
}

// ruleLine renders one calendar's active default rule for the report.
func ruleLine(calendarName string, r *rules.Rule) string {
	label := "Uscita"
	if r.Kind == domain.KindIncome {
		label = "Entrata"
	}
	return fmt.Sprintf("%s: %s €%s", calendarName, label, r.Amount.String())
}

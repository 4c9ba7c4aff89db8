// Package calendar adapts an external calendar provider to the narrow
// contract the reconciliation engine depends on: enumerate calendars,
// fetch a calendar's detail, and page through its events in a time window.
package calendar

import (
	"context"
	"time"
)

// Calendar is one entry from the provider's calendar list. Description is
// the summary-level text available from the list call; the detail call may
// carry a fuller one.
type Calendar struct {
	ID          string
	Name        string
	Description string
}

// Event is one calendar event with the fields the engine reads. Start is
// the timed start for timed events or midnight for all-day events.
type Event struct {
	ID          string
	Title       string
	Description string
	Start       time.Time
}

// EventPage is one page of events plus the continuation token for the next
// page. An empty NextPageToken ends pagination.
type EventPage struct {
	Items         []Event
	NextPageToken string
}

// Window bounds an event listing in time.
type Window struct {
	Min time.Time
	Max time.Time
}

// DefaultWindow is one year in the past through one year in the future,
// the range used when the caller does not specify one.
func DefaultWindow(now time.Time) Window {
	return Window{
		Min: now.AddDate(-1, 0, 0),
		Max: now.AddDate(1, 0, 0),
	}
}

// WindowSpanning centers a window on now, extending months in each direction.
func WindowSpanning(now time.Time, months int) Window {
	return Window{
		Min: now.AddDate(0, -months, 0),
		Max: now.AddDate(0, months, 0),
	}
}

// Service is the capability the engine is constructed with. It is injected
// rather than held as a package singleton so the engine can run against a
// fake in tests.
type Service interface {
	// ListCalendars enumerates all calendars visible to the credentialed user.
	ListCalendars(ctx context.Context) ([]Calendar, error)

	// GetCalendarDetail fetches the detail-level description for one calendar.
	GetCalendarDetail(ctx context.Context, id string) (string, error)

	// ListEvents returns one page of events within the window, ordered by
	// start time. Pass the previous page's NextPageToken to continue.
	ListEvents(ctx context.Context, calendarID string, window Window, pageToken string) (*EventPage, error)
}

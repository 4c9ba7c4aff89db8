package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Listing parameters, matching what the provider allows per request.
const (
	maxResultsPerPage = 2500
	orderByStartTime  = "startTime"
)

// GoogleService implements Service on top of the Google Calendar v3 API.
type GoogleService struct {
	svc *gcal.Service
}

// NewGoogleService builds a read-only Google Calendar adapter. With an empty
// credentialsFile, Application Default Credentials are used.
func NewGoogleService(ctx context.Context, credentialsFile string) (*GoogleService, error) {
	opts := []option.ClientOption{
		option.WithScopes(gcal.CalendarReadonlyScope),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &GoogleService{svc: svc}, nil
}

// ListCalendars implements Service.
func (g *GoogleService) ListCalendars(ctx context.Context) ([]Calendar, error) {
	resp, err := g.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}

	calendars := make([]Calendar, 0, len(resp.Items))
	for _, item := range resp.Items {
		calendars = append(calendars, Calendar{
			ID:          item.Id,
			Name:        item.Summary,
			Description: item.Description,
		})
	}
	return calendars, nil
}

// GetCalendarDetail implements Service.
func (g *GoogleService) GetCalendarDetail(ctx context.Context, id string) (string, error) {
	cal, err := g.svc.Calendars.Get(id).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get calendar %s: %w", id, err)
	}
	return cal.Description, nil
}

// ListEvents implements Service. Recurring events are expanded to single
// instances and deleted events are excluded, so every returned item maps to
// at most one transaction.
func (g *GoogleService) ListEvents(ctx context.Context, calendarID string, window Window, pageToken string) (*EventPage, error) {
	call := g.svc.Events.List(calendarID).
		TimeMin(window.Min.Format(time.RFC3339)).
		TimeMax(window.Max.Format(time.RFC3339)).
		ShowDeleted(false).
		SingleEvents(true).
		MaxResults(maxResultsPerPage).
		OrderBy(orderByStartTime).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list events for calendar %s: %w", calendarID, err)
	}

	page := &EventPage{
		Items:         make([]Event, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, item := range resp.Items {
		start, err := eventStart(item)
		if err != nil {
			return nil, fmt.Errorf("event %s in calendar %s: %w", item.Id, calendarID, err)
		}
		page.Items = append(page.Items, Event{
			ID:          item.Id,
			Title:       item.Summary,
			Description: item.Description,
			Start:       start,
		})
	}
	return page, nil
}

// eventStart resolves the timed start for timed events, falling back to the
// all-day date.
func eventStart(item *gcal.Event) (time.Time, error) {
	if item.Start == nil {
		return time.Time{}, fmt.Errorf("event has no start")
	}
	if item.Start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse start date-time %q: %w", item.Start.DateTime, err)
		}
		return t, nil
	}
	t, err := time.Parse("2006-01-02", item.Start.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse all-day start %q: %w", item.Start.Date, err)
	}
	return t, nil
}

var _ Service = (*GoogleService)(nil)

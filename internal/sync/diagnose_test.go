package sync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dazzifederico-hub/budcal/internal/calendar"
)

func TestDiagnose(t *testing.T) {
	cal := &fakeCalendarService{
		calendars: []calendar.Calendar{
			{ID: "cal-a", Name: "Salary", Description: "entrata 2000"},
			{ID: "cal-b", Name: "Spesa uscita 30", Description: "weekly groceries"},
			{ID: "cal-c", Name: "Holidays", Description: "trips and days off"},
		},
		details: map[string]string{},
	}
	engine := NewEngine(cal, nil)

	diags, err := engine.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if len(diags) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(diags))
	}

	if !strings.HasPrefix(diags[0].RuleDetected, "FROM DESCRIPTION") {
		t.Errorf("cal-a rule = %q, want FROM DESCRIPTION", diags[0].RuleDetected)
	}
	if !strings.Contains(diags[0].RuleDetected, "income €2000") {
		t.Errorf("cal-a rule = %q, want income €2000 in it", diags[0].RuleDetected)
	}
	if diags[0].DescriptionUsed != "entrata 2000" {
		t.Errorf("cal-a description = %q", diags[0].DescriptionUsed)
	}

	if !strings.HasPrefix(diags[1].RuleDetected, "FROM NAME") {
		t.Errorf("cal-b rule = %q, want FROM NAME", diags[1].RuleDetected)
	}

	if diags[2].RuleDetected != RuleNoneDetected {
		t.Errorf("cal-c rule = %q, want %q", diags[2].RuleDetected, RuleNoneDetected)
	}
}

func TestDiagnose_UsesDetailDescription(t *testing.T) {
	cal := &fakeCalendarService{
		calendars: []calendar.Calendar{
			{ID: "cal-a", Name: "A", Description: "from the list call"},
		},
		details: map[string]string{"cal-a": "uscita 12"},
	}
	engine := NewEngine(cal, nil)

	diags, err := engine.Diagnose(context.Background())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if diags[0].DescriptionUsed != "uscita 12" {
		t.Errorf("DescriptionUsed = %q, want the detail text", diags[0].DescriptionUsed)
	}
	if !strings.Contains(diags[0].RuleDetected, "expense €12") {
		t.Errorf("RuleDetected = %q, want expense €12", diags[0].RuleDetected)
	}
}

func TestDiagnose_EnumerationFailure(t *testing.T) {
	cal := &fakeCalendarService{calendarsErr: errors.New("network down")}
	engine := NewEngine(cal, nil)

	if _, err := engine.Diagnose(context.Background()); err == nil {
		t.Fatal("expected Diagnose to fail when enumeration fails")
	}
}

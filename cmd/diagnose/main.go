package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/calendar"
	"github.com/dazzifederico-hub/budcal/internal/config"
	"github.com/dazzifederico-hub/budcal/internal/logger"
	"github.com/dazzifederico-hub/budcal/internal/sync"
)

// Prints, per calendar, the description the engine actually reads and the
// default rule it detects. This is the tool for debugging "sync created
// nothing" situations: the rule language is purely textual, so seeing the
// text the engine saw is the whole story.
func main() {
	log := logger.New()

	configPath := flag.String("config", "", "Path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	cal, err := calendar.NewGoogleService(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize calendar client")
	}

	// Diagnose never touches the store, so none is opened here.
	engine := sync.NewEngine(cal, nil)
	diags, err := engine.Diagnose(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Diagnostics failed")
	}

	for _, d := range diags {
		fmt.Printf("Calendar: %s (%s)\n", d.CalendarName, d.CalendarID)
		fmt.Printf("  Description: %q\n", d.DescriptionUsed)
		fmt.Printf("  Rule:        %s\n", d.RuleDetected)
	}
}

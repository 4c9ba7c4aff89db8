package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dazzifederico-hub/budcal/internal/calendar"
	"github.com/dazzifederico-hub/budcal/internal/config"
	"github.com/dazzifederico-hub/budcal/internal/logger"
	"github.com/dazzifederico-hub/budcal/internal/store"
	"github.com/dazzifederico-hub/budcal/internal/sync"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "Path to config file (optional)")
	startDateStr := flag.String("start-date", "", "Window start, YYYY-MM-DD (default: one year ago)")
	endDateStr := flag.String("end-date", "", "Window end, YYYY-MM-DD (default: one year ahead)")
	dryRun := flag.Bool("dry-run", false, "Compute the sync without writing the ledger")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	window := calendar.WindowSpanning(time.Now(), cfg.SyncWindowMonths)
	if *startDateStr != "" || *endDateStr != "" {
		if *startDateStr == "" || *endDateStr == "" {
			log.Fatal().Msg("Error: --start-date and --end-date must be given together")
		}
		window.Min, err = time.Parse("2006-01-02", *startDateStr)
		if err != nil {
			log.Fatal().Err(err).Str("start_date", *startDateStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
		}
		window.Max, err = time.Parse("2006-01-02", *endDateStr)
		if err != nil {
			log.Fatal().Err(err).Str("end_date", *endDateStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
		}
		if window.Max.Before(window.Min) {
			log.Fatal().
				Time("start_date", window.Min).
				Time("end_date", window.Max).
				Msg("Error: end-date must be after start-date")
		}
	}

	// Sync latency is the sum of per-calendar latencies; give it room.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, err := store.OpenSQLite(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("database", cfg.DatabasePath).Msg("Failed to open transaction store")
	}
	defer st.Close()

	cal, err := calendar.NewGoogleService(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize calendar client")
	}

	engine := sync.NewEngine(cal, st)
	report, err := engine.Sync(ctx, window, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Printf("Events scanned:      %d\n", report.TotalFound)
	fmt.Printf("Calendars scanned:   %d\n", report.CalendarsScanned)
	fmt.Printf("Transactions created: %d\n", report.CreatedTransactions)
	for _, rule := range report.Rules {
		fmt.Printf("Rule: %s\n", rule)
	}
	for _, skipped := range report.SkippedCalendars {
		fmt.Printf("Skipped calendar: %s\n", skipped)
	}
}

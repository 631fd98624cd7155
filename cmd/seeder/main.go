package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/calendar"
	"github.com/mauv0809/team-planner/internal/database"
	"github.com/mauv0809/team-planner/internal/metrics"
	"github.com/mauv0809/team-planner/internal/planner"
	"github.com/mauv0809/team-planner/internal/roster"
	"github.com/prometheus/client_golang/prometheus"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "local.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for _, key := range []string{"DB_NAME", "MIGRATIONS_DIR", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN", "SEED_AVAILABILITY"} {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			config[key] = value
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	rosterStore := roster.New(db)
	created, err := rosterStore.SeedIfEmpty(ctx, roster.DefaultPlayers)
	if err != nil {
		log.Fatalf("Failed to seed roster: %s", err)
	}
	if created == 0 {
		log.Info("Roster already populated, leaving it untouched")
	}

	if cfg["SEED_AVAILABILITY"] == "" {
		return
	}

	// Random evening availability for every active player across the window,
	// written through the planner's update queue like an interactive edit.
	dates := calendar.CurrentWindow(time.Now())
	source := planner.StoreSource{Roster: rosterStore, Availability: availability.New(db)}
	p := planner.New(source, planner.SystemScheduler{}, metrics.NewService(prometheus.NewRegistry()), dates, planner.Options{Debounce: time.Hour})
	if err := p.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load planner data: %s", err)
	}

	startTime := time.Now()
	for _, date := range dates {
		s, _ := p.Session(date)
		for _, player := range s.Players() {
			for _, hour := range availability.DefaultHours {
				status := availability.Statuses[rand.Intn(len(availability.Statuses))]
				if err := s.SetCell(player.ID, hour, status); err != nil {
					log.Fatalf("Failed to seed availability for %s on %s: %s", player.Name, date, err)
				}
			}
		}
	}
	p.Close(ctx)

	for _, date := range dates {
		if s, _ := p.Session(date); s.HasPending() {
			log.Warn("Some availability could not be written", "date", date)
		}
	}
	log.Info("Seeded availability", "players", len(p.Players()), "days", len(dates), "duration", time.Since(startTime))
}

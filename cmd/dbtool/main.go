package main

import (
	"context"
	"database/sql"
	"escort-route-service/internal/adapters/repositories"
	"escort-route-service/internal/config"
	"escort-route-service/internal/platform/db"
	"escort-route-service/internal/platform/obs"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()
	obs.Setup(config.Get("LOG_LEVEL", "info"), true)
	if envErr != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()
	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/employees.json")
	if err := initAndSeed(ctx, database, seedPath); err != nil {
		log.Fatal().Err(err).Msg("init and seed")
	}
}

func initAndSeed(ctx context.Context, database *sql.DB, seedPath string) error {
	log.Info().Msg("Initializing database schema...")
	if err := repositories.InitSchema(ctx, database); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("Schema ready.")

	log.Info().Str("path", seedPath).Msg("Seeding database...")
	repo := repositories.NewPostgresEmployeeRepository(database)
	if err := repositories.SeedFromJSON(ctx, repo, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().Msg("Seeding complete.")

	return nil
}

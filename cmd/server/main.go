package main

import (
	"context"
	"database/sql"
	"errors"
	"escort-route-service/internal/adapters/cache"
	"escort-route-service/internal/adapters/distance"
	"escort-route-service/internal/adapters/repositories"
	"escort-route-service/internal/adapters/solver"
	"escort-route-service/internal/api"
	"escort-route-service/internal/config"
	"escort-route-service/internal/platform/db"
	"escort-route-service/internal/platform/obs"
	"escort-route-service/internal/ports"
	"escort-route-service/internal/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (OSRM or Google, Redis, Postgres, cuOpt) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	obs.Setup(cfg.LogLevel, cfg.LogPretty)
	if envErr != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	var (
		database *sql.DB
		roster   ports.EmployeeRepository
		caches   []ports.MatrixCache
	)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		caches = append(caches, cache.NewRedisMatrixCache(rdb, cfg.MatrixCacheTTL))
	}

	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := repositories.InitSchema(ctx, database); err != nil {
			return err
		}
		roster = repositories.NewPostgresEmployeeRepository(database)
		caches = append(caches, cache.NewSQLMatrixCache(database, cfg.MatrixCacheTTL))
	}

	upstream, err := matrixProvider(cfg)
	if err != nil {
		return err
	}
	matrices, err := distance.NewCachedMatrixProvider(upstream, caches...)
	if err != nil {
		return err
	}

	var routeSolver ports.RouteSolver
	if cfg.SolverURL != "" {
		c, err := solver.NewCuOptClient(cfg.SolverURL, cfg.SolverPollAttempts, cfg.SolverPollInterval)
		if err != nil {
			return err
		}
		routeSolver = c
	} else {
		log.Warn().Msg("SOLVER_URL not set; /optimise will fail")
	}

	planner := services.NewTripPlanner(matrices, routeSolver, roster, cfg.Planner)
	router := api.NewRouter(planner, roster)

	// Timeouts are tuned for cold-cache matrices plus an async solver run.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("matrix_provider", cfg.MatrixProvider).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func matrixProvider(cfg *config.Config) (ports.MatrixProvider, error) {
	switch cfg.MatrixProvider {
	case config.ProviderGoogle:
		return distance.NewGoogleMatrixProvider(cfg.GoogleMapsAPIKey)
	default:
		return distance.NewOSRMMatrixProvider(cfg.OSRMURL)
	}
}

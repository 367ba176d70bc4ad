package config

import (
	"errors"
	"escort-route-service/internal/services"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOSRM   = "osrm"
	ProviderGoogle = "google"
)

// Config is the process configuration assembled from the environment and an
// optional planner file.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	LogLevel    string
	LogPretty   bool

	MatrixProvider   string
	OSRMURL          string
	GoogleMapsAPIKey string
	MatrixCacheTTL   time.Duration

	SolverURL          string
	SolverPollAttempts int
	SolverPollInterval time.Duration

	Planner services.PlannerOptions
}

// plannerFile is the on-disk shape of PLANNER_CONFIG.
type plannerFile struct {
	VehicleCapacity      *int     `yaml:"vehicle_capacity"`
	MaxDetourPercent     *float64 `yaml:"max_detour_percent"`
	PairingCeilingMeters *float64 `yaml:"pairing_ceiling_meters"`
	LongDistanceKm       *float64 `yaml:"long_distance_km"`
	HighDetourPercent    *float64 `yaml:"high_detour_percent"`
}

// Load reads configuration from the environment. Values in the planner file
// override the built-in planner defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        Get("PORT", "8080"),
		DatabaseURL: Get("DATABASE_URL", ""),
		RedisAddr:   Get("REDIS_ADDR", ""),
		LogLevel:    Get("LOG_LEVEL", "info"),
		LogPretty:   GetBool("LOG_PRETTY", false),

		MatrixProvider:   strings.ToLower(Get("MATRIX_PROVIDER", ProviderOSRM)),
		OSRMURL:          Get("OSRM_URL", "http://localhost:5000"),
		GoogleMapsAPIKey: Get("GOOGLE_MAPS_API_KEY", ""),
		MatrixCacheTTL:   GetDuration("MATRIX_CACHE_TTL", 24*time.Hour),

		SolverURL:          Get("SOLVER_URL", ""),
		SolverPollAttempts: GetInt("SOLVER_POLL_ATTEMPTS", 60),
		SolverPollInterval: GetDuration("SOLVER_POLL_INTERVAL", time.Second),

		Planner: services.DefaultPlannerOptions(),
	}

	if path := Get("PLANNER_CONFIG", ""); path != "" {
		if err := cfg.loadPlannerFile(path); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadPlannerFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read planner file %q: %w", path, err)
	}

	var pf plannerFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return fmt.Errorf("parse planner file %q: %w", path, err)
	}

	if pf.VehicleCapacity != nil {
		c.Planner.DefaultCapacity = *pf.VehicleCapacity
	}
	if pf.MaxDetourPercent != nil {
		c.Planner.DefaultDetourPercent = *pf.MaxDetourPercent
	}
	if pf.PairingCeilingMeters != nil {
		c.Planner.PairingCeiling = *pf.PairingCeilingMeters
	}
	if pf.LongDistanceKm != nil {
		c.Planner.LongDistanceKm = *pf.LongDistanceKm
	}
	if pf.HighDetourPercent != nil {
		c.Planner.HighDetourPercent = *pf.HighDetourPercent
	}
	return nil
}

func (c *Config) validate() error {
	switch c.MatrixProvider {
	case ProviderOSRM:
		if c.OSRMURL == "" {
			return errors.New("OSRM_URL is required for the osrm provider")
		}
	case ProviderGoogle:
		if c.GoogleMapsAPIKey == "" {
			return errors.New("GOOGLE_MAPS_API_KEY is required for the google provider")
		}
	default:
		return fmt.Errorf("unknown MATRIX_PROVIDER %q", c.MatrixProvider)
	}

	if c.Planner.DefaultCapacity < 2 {
		return fmt.Errorf("planner vehicle_capacity %d must be >= 2", c.Planner.DefaultCapacity)
	}
	if c.Planner.DefaultDetourPercent < 0 {
		return fmt.Errorf("planner max_detour_percent %v must be >= 0", c.Planner.DefaultDetourPercent)
	}
	if c.SolverPollAttempts < 1 {
		return fmt.Errorf("SOLVER_POLL_ATTEMPTS %d must be >= 1", c.SolverPollAttempts)
	}
	return nil
}

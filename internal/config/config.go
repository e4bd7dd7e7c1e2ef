// Package config centralizes application configuration into typed
// structs. Defaults come from NewDefaultConfig; a handful of settings
// can be overridden through environment variables (Load), which the
// composition root pairs with a .env file via godotenv.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the top-level configuration container.
type Config struct {
	Server    ServerConfig
	Geo       GeoConfig
	Recommend RecommendConfig
	Reroute   RerouteConfig
	Feed      FeedConfig
	Simulator SimulatorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// GeoConfig controls geohash precision for the parking index.
// Precision 6 gives ~1.2 km cells; a 3x3 neighborhood then covers the
// whole candidate search radius.
type GeoConfig struct {
	GeohashPrecision int
	SearchRadiusKm   float64
}

// RecommendConfig controls candidate ranking.
type RecommendConfig struct {
	DefaultPriceWeight float64 // balance of price vs distance in [0,1]
}

// RerouteConfig holds the reroute monitor's thresholds. The hysteresis
// margin keeps GPS noise from flapping the suggestion state; the
// movement floor keeps jittery position updates from re-running
// evaluations at all.
type RerouteConfig struct {
	ArrivalRadiusKm  float64       // closer than this: arrival imminent, no reroute
	HysteresisKm     float64       // alternative must beat current by this margin
	MinMovementKm    float64       // ignore position deltas below this
	PollInterval     time.Duration // availability poll period per trip
	LowSpotThreshold int           // below this, warn that the option is filling up
	SessionTTL       time.Duration // drop trips never completed after this long
}

// FeedConfig bounds the notification feed.
type FeedConfig struct {
	Capacity int
}

// SimulatorConfig controls the occupancy simulator that stands in for a
// live inventory feed.
type SimulatorConfig struct {
	Enabled  bool
	Interval time.Duration
	MaxDelta int
}

// NewDefaultConfig returns a Config populated with the defaults the
// service ships with.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Geo: GeoConfig{
			GeohashPrecision: 6,
			SearchRadiusKm:   3.0,
		},
		Recommend: RecommendConfig{
			DefaultPriceWeight: 0.3,
		},
		Reroute: RerouteConfig{
			ArrivalRadiusKm:  0.1,
			HysteresisKm:     0.2,
			MinMovementKm:    0.01,
			PollInterval:     10 * time.Second,
			LowSpotThreshold: 5,
			SessionTTL:       5 * time.Minute,
		},
		Feed: FeedConfig{
			Capacity: 8,
		},
		Simulator: SimulatorConfig{
			Enabled:  true,
			Interval: 8 * time.Second,
			MaxDelta: 5,
		},
	}
}

// Load builds a Config from defaults plus environment overrides.
func Load() *Config {
	cfg := NewDefaultConfig()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = ":" + port
	}
	if v, ok := envDuration("POLL_INTERVAL"); ok {
		cfg.Reroute.PollInterval = v
	}
	if v, ok := envDuration("SESSION_TTL"); ok {
		cfg.Reroute.SessionTTL = v
	}
	if v, ok := envFloat("DEFAULT_PRICE_WEIGHT"); ok {
		cfg.Recommend.DefaultPriceWeight = v
	}
	if v, ok := envBool("SIMULATOR_ENABLED"); ok {
		cfg.Simulator.Enabled = v
	}

	return cfg
}

func envDuration(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return b, true
}

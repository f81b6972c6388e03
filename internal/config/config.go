// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win over the file.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCategories is the selection list offered for new products and filters.
var DefaultCategories = []string{"electronics", "apparel", "food", "books", "home", "other"}

// Server configures cmd/catalog-api.
type Server struct {
	ListenAddr   string
	DatabaseURL  string
	RolloutKey   string
	LogLevel     string
	RateRPS      float64
	RateBurst    int
	SeedDemoData bool
}

// Client configures cmd/catalogctl.
type Client struct {
	APIURL     string
	APITimeout time.Duration
	Categories []string
	LogLevel   string
}

// LoadDotEnv loads the given env files (".env" when none are given).
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// LoadServer reads the API server settings.
func LoadServer() (Server, error) {
	cfg := Server{
		ListenAddr:   getenvDefault("LISTEN_ADDR", ":9000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RolloutKey:   os.Getenv("ROLLOUT_KEY"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
		RateRPS:      getenvFloatDefault("RATE_RPS", 20),
		RateBurst:    getenvIntDefault("RATE_BURST", 40),
		SeedDemoData: getenvBoolDefault("SEED_DEMO_DATA", true),
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Server{}, errors.New("DATABASE_URL is required")
	}
	if cfg.RateRPS <= 0 {
		return Server{}, errors.New("RATE_RPS must be > 0")
	}
	if cfg.RateBurst <= 0 {
		return Server{}, errors.New("RATE_BURST must be > 0")
	}
	return cfg, nil
}

// LoadClient reads the CLI settings.
func LoadClient() (Client, error) {
	cfg := Client{
		APIURL:     strings.TrimRight(getenvDefault("API_URL", "http://localhost:9000/api"), "/"),
		APITimeout: getenvDurationDefault("API_TIMEOUT", 0),
		Categories: getenvListDefault("CATALOG_CATEGORIES", DefaultCategories),
		LogLevel:   getenvDefault("LOG_LEVEL", "warn"),
	}
	if cfg.APIURL == "" {
		return Client{}, errors.New("API_URL must not be empty")
	}
	if cfg.APITimeout < 0 {
		return Client{}, errors.New("API_TIMEOUT must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getenvListDefault(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), def...)
	}
	return out
}

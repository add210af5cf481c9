/*
config.go - Application configuration

PURPOSE:
  Loads server configuration from environment variables, with an optional
  .env file for local development. Command-line flags in cmd/server take
  precedence over the environment.

ENVIRONMENT VARIABLES:
  PORT             HTTP server port (default: 8080)
  DB_PATH          SQLite database path (default: budgets.db, ":memory:" allowed)
  SWEEP_SPEC       Cron expression for the recurrence sweep (default: "@hourly")
  SWEEP_ENABLED    "true"/"false" to run the background sweep (default: true)
  ALLOWED_ORIGINS  Comma-separated CORS origins (default: "*")

SEE ALSO:
  - cmd/server/main.go: flag overrides and wiring
  - api/scheduler.go: sweep schedule consumer
*/
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the server.
type Config struct {
	Port           int
	DBPath         string
	SweepSpec      string
	SweepEnabled   bool
	AllowedOrigins []string
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file found, using environment")
	}

	cfg := &Config{
		Port:           envInt("PORT", 8080),
		DBPath:         envString("DB_PATH", "budgets.db"),
		SweepSpec:      envString("SWEEP_SPEC", "@hourly"),
		SweepEnabled:   envBool("SWEEP_ENABLED", true),
		AllowedOrigins: envList("ALLOWED_ORIGINS", []string{"*"}),
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("[Config] Invalid %s: %v", key, err)
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("[Config] Invalid %s: %v", key, err)
	}
	return b
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

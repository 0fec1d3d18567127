// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable: strings for identifiers and secrets, with the
// Withings pair left optional so the service can run with the integration
// unconfigured (integration routes then answer 500 instead of calling out).
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	APIToken    string // static bearer token protecting the /v1 API
	StateSecret string // secret signing the OAuth state parameter
	BaseURL     string // public base URL for OAuth redirect + webhook callback

	WithingsClientID     string // Withings application client id (optional)
	WithingsClientSecret string // Withings application client secret (optional)
}

// Load reads configuration from environment variables. Required variables
// are enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		APIToken:    must("API_TOKEN"),
		StateSecret: must("STATE_SECRET"),
		BaseURL:     must("BASE_URL"),

		WithingsClientID:     os.Getenv("WITHINGS_CLIENT_ID"),
		WithingsClientSecret: os.Getenv("WITHINGS_CLIENT_SECRET"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

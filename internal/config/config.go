package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config is the environment-driven runtime configuration.
type Config struct {
	Port              string
	PostgresURL       string
	OpenWeatherAPIKey string
	GraphDataDir      string
	Debug             bool
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		PostgresURL:       os.Getenv("POSTGRES_URL"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		GraphDataDir:      getEnv("GRAPH_DATA_DIR", "data/graphs"),
		Debug:             os.Getenv("DEBUG") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

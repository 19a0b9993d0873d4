// Package config loads application configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the two adapters need to wire the bot together.
type Config struct {
	TelegramToken    string
	OpenWeatherToken string
	DatabaseURL      string

	// Webhook adapter only.
	Port          string
	WebhookSecret string

	// Base URLs for external lookups, overridable for tests and proxies.
	WeatherBaseURL string
	FoodBaseURL    string

	DraftTTLMinutes int
	DeployVersion   string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; production deployments set real environment variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		OpenWeatherToken: os.Getenv("OPENWEATHER_TOKEN"),
		DatabaseURL:      os.Getenv("DB_URL"),
		Port:             getEnv("PORT", "8080"),
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		WeatherBaseURL:   getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org"),
		FoodBaseURL:      getEnv("FOOD_BASE_URL", "https://world.openfoodfacts.org"),
		DraftTTLMinutes:  getEnvInt("DRAFT_TTL_MINUTES", 30),
		DeployVersion:    os.Getenv("BOT_DEPLOY_VERSION"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Sensay   SensayConfig
	Tracker  TrackerConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SensayConfig struct {
	BaseURL    string
	APIVersion string
	// OrganizationSecret is the bootstrap credential. The durable copy lives
	// in the settings table; this env value only seeds a fresh install.
	OrganizationSecret string
	LLMProvider        string
	LLMModel           string
}

type TrackerConfig struct {
	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Sensay: SensayConfig{
			BaseURL:            getEnv("SENSAY_BASE_URL", "https://api.sensay.io/v1"),
			APIVersion:         getEnv("SENSAY_API_VERSION", "2025-03-25"),
			OrganizationSecret: getEnv("SENSAY_ORGANIZATION_SECRET", ""),
			LLMProvider:        getEnv("REPLICA_LLM_PROVIDER", "openai"),
			LLMModel:           getEnv("REPLICA_LLM_MODEL", "gpt-4o"),
		},
		Tracker: TrackerConfig{
			PollInterval: getEnvAsDuration("KNOWLEDGE_POLL_INTERVAL", 5*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

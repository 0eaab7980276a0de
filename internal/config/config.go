package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Airtable  AirtableConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AirtableConfig carries the base credentials plus the names of every table
// the service touches. Table names are loaded once here and handed to the
// user service; business logic never reads the environment directly.
type AirtableConfig struct {
	APIKey string
	BaseID string
	Tables TableNames
}

// TableNames lists the Airtable tables backing the service. Payroll and
// LegacyProjects belong to the legacy HR base and are read-only; Users and
// Projects are owned by MobyApp. Clients is optional; when empty, project
// reconciliation skips client disambiguation.
type TableNames struct {
	Payroll        string
	LegacyProjects string
	Users          string
	Projects       string
	Clients        string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Airtable: AirtableConfig{
			APIKey: getEnvOrPanic("AIRTABLE_API_KEY"),
			BaseID: getEnvOrPanic("AIRTABLE_BASE_ID"),
			Tables: TableNames{
				Payroll:        getEnvOrPanic("AIRTABLE_TABLE_NAME_PERSONALES"),
				LegacyProjects: getEnvOrPanic("AIRTABLE_TABLE_NAME_PROYECTOS"),
				Users:          getEnvOrPanic("AIRTABLE_TABLE_NAME_USERS_APP"),
				Projects:       getEnvOrPanic("AIRTABLE_TABLE_NAME_PROYECTOS_APP"),
				Clients:        viper.GetString("AIRTABLE_TABLE_NAME_CLIENTES"),
			},
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if cfg.Airtable.Tables.Clients == "" {
		log.Println("WARNING: AIRTABLE_TABLE_NAME_CLIENTES is not set; project reconciliation will match by name only")
	}

	return cfg, nil
}

func getEnvOrPanic(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("environment variable %s is required", key)
	}
	return v
}

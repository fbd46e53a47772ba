package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Port            string
	DatabaseURL     string
	DataPath        string
	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string
	LogDir          string
	GinMode         string
	Verbose         bool
}

// envPaths are tried in order; the first existing file wins.
var envPaths = []string{".env", "../.env", "../../.env"}

// Load loads the configuration from a .env file and environment variables.
// Variables already set in the environment take precedence over the file.
func Load() (*AppConfig, error) {
	for _, p := range envPaths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Failed to parse .env file")
		} else {
			log.Debug().Str("path", p).Msg("Loaded configuration from .env")
		}
		break
	}
	return FromEnv(), nil
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *AppConfig {
	return &AppConfig{
		Port:            getEnv("PORT", "8000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DataPath:        getEnv("DATA_PATH", "api_keys.db"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		APIMasterSecret: getEnv("API_MASTER_SECRET", ""),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
		LogDir:          getEnv("LOGS_FOLDER", "logs"),
		GinMode:         getEnv("GIN_MODE", ""),
		Verbose:         getEnvBool("ROSTER_VERBOSE", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

const (
	DriverSqlite = "sqlite"
	DriverJSON   = "json"
)

type Config struct {
	AppURL                 string
	StorageDriver          string
	DatabaseDSN            string
	JSONDBPath             string
	RateLimit              int
	RedisAddr              string
	ShutdownTimeoutSeconds int
	LogLevel               string
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		StorageDriver:          getEnv("STORAGE_DRIVER", DriverSqlite),
		DatabaseDSN:            getEnv("DATABASE_DSN", "todo.db"),
		JSONDBPath:             getEnv("JSON_DB_PATH", "data/db.json"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.StorageDriver != DriverSqlite && cfg.StorageDriver != DriverJSON {
		log.Fatalf("STORAGE_DRIVER must be %q or %q", DriverSqlite, DriverJSON)
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.JSONDBPath == "" {
		log.Fatal("JSON_DB_PATH must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		log.Fatal("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}

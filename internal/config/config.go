package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	DatabaseURL string

	JWT struct {
		AccessSecret  string
		RefreshSecret string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	RateLimit struct {
		Limit  int
		Window time.Duration
	}

	LogLevel string
}

// Load reads configuration from the environment. A local .env file is
// honored when present; missing required variables fail startup.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	cfg.JWT.AccessSecret = os.Getenv("JWT_ACCESS_SECRET")
	cfg.JWT.RefreshSecret = os.Getenv("JWT_REFRESH_SECRET")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Minio.Endpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	cfg.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	cfg.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	cfg.Minio.Bucket = getEnv("MINIO_LOGO_BUCKET", "tenant-logos")
	cfg.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	cfg.RateLimit.Limit = getEnvInt("RATE_LIMIT_MAX", 5)
	cfg.RateLimit.Window = time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second

	for name, value := range map[string]string{
		"DATABASE_URL":       cfg.DatabaseURL,
		"JWT_ACCESS_SECRET":  cfg.JWT.AccessSecret,
		"JWT_REFRESH_SECRET": cfg.JWT.RefreshSecret,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", name)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

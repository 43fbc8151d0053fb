package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Uploads  UploadsConfig
	Sweep    SweepConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
	Env     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type UploadsConfig struct {
	Dir        string
	PublicPath string
}

type SweepConfig struct {
	Interval time.Duration
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "room_booking"),
		},
		JWT: JWTConfig{
			AccessSecret:       getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", "your-refresh-secret-key"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "24h"), 24*time.Hour),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
			Env:     getEnv("APP_ENV", "development"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Uploads: UploadsConfig{
			Dir:        getEnv("UPLOADS_DIR", "./uploads"),
			PublicPath: getEnv("UPLOADS_PUBLIC_PATH", "/uploads"),
		},
		Sweep: SweepConfig{
			Interval: parseDuration(getEnv("SWEEP_INTERVAL", "5m"), 5*time.Minute),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

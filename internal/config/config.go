package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	UploadPath  string // folder receipts and attachments are stored in
	// BlockOnInsufficientFloat hard-blocks submission when the float balance
	// cannot cover the expense. Off by default: the expense is let in and the
	// decision is left to the approver.
	BlockOnInsufficientFloat bool
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:                 getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:              getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=floatflow port=5432 sslmode=disable"),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		CORSOrigins:              getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadPath:               getEnv("UPLOAD_PATH", "./uploads"),
		BlockOnInsufficientFloat: getEnv("BLOCK_ON_INSUFFICIENT_FLOAT", "") == "true",
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment variable is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package main

import (
	"os"

	"github.com/joho/godotenv"

	"examnova/internal/config"
	"examnova/internal/logging"
)

func main() {
	// Secrets (RAPIDAPI_KEY, EMAIL_API_KEY) usually live in a local .env.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		os.Exit(1)
	}
}

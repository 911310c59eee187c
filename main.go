package main

import (
	"log"

	"github.com/joho/godotenv"

	"pokedata/cmd"
	"pokedata/internal/config"
	"pokedata/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logCfg := logger.DefaultConfig()
	cfg, cfgErr := config.Load()
	if cfgErr == nil {
		logCfg = cfg.GetLoggerConfig()
	}
	if err := logger.Setup(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if cfgErr != nil {
		logger.Error(cfgErr, "Could not load configuration, using default logging")
	}

	logger.Debug("Starting pokedata")

	cmd.Execute()
}

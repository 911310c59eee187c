package config

import (
	"fmt"
	"os"
	"strconv"

	"pokedata/internal/logger"
	"pokedata/internal/ocr"
)

// Config holds process-wide settings read from the environment (and .env).
// Per-run settings live in the run manifest, see LoadManifest.
type Config struct {
	// PokeAPI Configuration
	PokeAPIBaseURL string
	PokeAPIRate    float64 // requests per second

	// Google Cloud Configuration
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Google Sheets Configuration
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Rasterizer Configuration
	PdftoppmPath string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	rate, err := getEnvFloat("POKEAPI_RATE", 5)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config := &Config{
		PokeAPIBaseURL:        getEnv("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2"),
		PokeAPIRate:           rate,
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:  getEnv("GOOGLE_SHEET_WORKSHEET", "Guide"),
		PdftoppmPath:          getEnv("PDFTOPPM_PATH", "pdftoppm"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.PokeAPIBaseURL == "" {
		return fmt.Errorf("POKEAPI_BASE_URL must not be empty")
	}
	if c.PokeAPIRate <= 0 {
		return fmt.Errorf("POKEAPI_RATE must be positive, got %v", c.PokeAPIRate)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetDocumentAIConfig returns the Document AI engine settings.
func (c *Config) GetDocumentAIConfig() ocr.DocumentAIConfig {
	return ocr.DocumentAIConfig{
		ProjectID:   c.GoogleCloudProject,
		Location:    c.GoogleCloudLocation,
		ProcessorID: c.DocumentAIProcessorID,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, value)
	}
	return f, nil
}

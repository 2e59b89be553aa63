package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Dirs   DirConfig
	OCR    OCRConfig
	Vision VisionConfig
	Naming NamingConfig
}

// DirConfig holds the input/output directories. They are explicit
// configuration passed down to the pipeline; nothing below the cmd
// layer reads the environment.
type DirConfig struct {
	Input  string
	Output string
}

// OCRConfig holds rasterization-related configuration
type OCRConfig struct {
	Pdftoppm string
	DPI      int
	MaxJobs  int
}

// VisionConfig holds Google Vision API configuration
type VisionConfig struct {
	Endpoint        string
	CredentialsFile string
	LanguageHints   []string
	Timeout         time.Duration
}

// NamingConfig holds parser/naming configuration
type NamingConfig struct {
	ManufacturersPath string
	HistoryDBPath     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Dirs: DirConfig{
			Input:  getEnv("PDF_INPUT_DIR", "./input"),
			Output: getEnv("PDF_OUTPUT_DIR", "./output"),
		},
		OCR: OCRConfig{
			Pdftoppm: getEnv("PDFTOPPM_BIN", "pdftoppm"),
			DPI:      getEnvAsInt("OCR_DPI", 300),
			MaxJobs:  getEnvAsInt("OCR_MAX_JOBS", 4),
		},
		Vision: VisionConfig{
			Endpoint:        getEnv("VISION_ENDPOINT", ""),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			LanguageHints:   getEnvAsList("VISION_LANGUAGE_HINTS", []string{"ja", "en"}),
			Timeout:         getEnvAsDuration("VISION_TIMEOUT", 60*time.Second),
		},
		Naming: NamingConfig{
			ManufacturersPath: getEnv("MANUFACTURERS_PATH", ""),
			HistoryDBPath:     getEnv("HISTORY_DB_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Dirs.Input == "" {
		return NewAppError("CONFIG_ERROR", "PDF_INPUT_DIR is required", ErrInvalidInput)
	}
	if c.Dirs.Output == "" {
		return NewAppError("CONFIG_ERROR", "PDF_OUTPUT_DIR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.OCR.MaxJobs <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_MAX_JOBS must be positive", ErrInvalidInput)
	}
	return nil
}

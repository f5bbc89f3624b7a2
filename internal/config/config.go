// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string

	Workers       int
	ParseTimeout  time.Duration
	MaxInputBytes int64
	PDFBackends   []string // Empty means every registered backend.

	MetricsFile string
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Workers:       getEnvInt("PARSE_WORKERS", runtime.NumCPU()),
		ParseTimeout:  time.Duration(getEnvInt("PARSE_TIMEOUT_SEC", 60)) * time.Second,
		MaxInputBytes: int64(getEnvInt("MAX_INPUT_BYTES", 50<<20)),
		PDFBackends:   getEnvList("PDF_BACKENDS"),
		MetricsFile:   getEnv("METRICS_FILE", ""),
	}

	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("PARSE_WORKERS must be positive, got %d", cfg.Workers)
	}
	if cfg.ParseTimeout <= 0 {
		return Config{}, fmt.Errorf("PARSE_TIMEOUT_SEC must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

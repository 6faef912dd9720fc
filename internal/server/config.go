package server

import (
	"os"
	"strconv"
	"time"
)

// Config holds daemon configuration
type Config struct {
	HTTPAddr       string
	MetricsAddr    string
	SourcesFile    string
	Workers        int
	ScrapeInterval time.Duration
}

// LoadConfig reads environment variables and returns a Config
func LoadConfig() *Config {
	return &Config{
		HTTPAddr:       getEnv("RR_HTTP_ADDR", ":8080"),
		MetricsAddr:    getEnv("RR_METRICS_ADDR", ":9090"),
		SourcesFile:    getEnv("RR_SOURCES_FILE", ""),
		Workers:        getEnvInt("RR_WORKERS", 5),
		ScrapeInterval: getEnvDuration("RR_SCRAPE_INTERVAL", 15*time.Minute),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment variables read once at startup
const (
	EnvAPIRootURL  = "MOOD_API_ROOT_URL"
	EnvMetricsAddr = "MOOD_METRICS_ADDR"
	EnvLogLevel    = "MOOD_LOG_LEVEL"
)

// Config is resolved once in main and never changed afterwards
type Config struct {
	APIRootURL  string
	MetricsAddr string // empty disables the metrics listener
	LogLevel    logrus.Level
}

// Load resolves the configuration. Environment variables take precedence
// over stored preferences, which take precedence over defaults.
func Load(settings *Settings) (Config, error) {
	cfg := Config{
		APIRootURL:  getEnv(EnvAPIRootURL, settings.GetAPIRootURL()),
		MetricsAddr: getEnv(EnvMetricsAddr, ""),
		LogLevel:    logrus.InfoLevel,
	}
	cfg.APIRootURL = strings.TrimRight(cfg.APIRootURL, "/")

	if err := ValidateRootURL(cfg.APIRootURL); err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvAPIRootURL, err)
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = parsed
	}

	return cfg, nil
}

// ValidateRootURL checks that root is an absolute http(s) origin
func ValidateRootURL(root string) error {
	parsed, err := url.Parse(root)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

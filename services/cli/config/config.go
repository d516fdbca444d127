package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	BaseURL     string
	SessionPath string
	Timeout     time.Duration
}

// Load charge la configuration depuis l'ENV ou utilise des défauts
func Load() (*Config, error) {
	sessionPath := getEnv("SOCIALCTL_SESSION", "")
	if sessionPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locating config dir: %w", err)
		}
		sessionPath = filepath.Join(dir, "socialctl", "session.yaml")
	}

	cfg := &Config{
		BaseURL:     getEnv("SOCIALCTL_BASE_URL", "http://localhost:8080"),
		SessionPath: sessionPath,
		Timeout:     time.Duration(getEnvInt("SOCIALCTL_TIMEOUT", 10)) * time.Second,
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("SOCIALCTL_TIMEOUT must be positive")
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
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

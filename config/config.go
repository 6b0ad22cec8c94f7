package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config structure
type Config struct {
	ExportDir         string `json:"exportDir"`         // Directory export files are written to
	DBEngine          string `json:"dbEngine"`          // "sqlite" or "mysql"
	DBPath            string `json:"dbPath"`            // SQLite file path, or MySQL DSN
	EntitlementFile   string `json:"entitlementFile"`   // Plan entitlement JSON file
	Plan              string `json:"plan"`              // Active subscription plan name
	MaxSlides         int    `json:"maxSlides"`         // 0 = unlimited
	MaxBlocksPerSlide int    `json:"maxBlocksPerSlide"` // 0 = unlimited
	DetailedLog       bool   `json:"detailedLog"`
}

// Default returns the configuration used when no file exists yet.
func Default() Config {
	return Config{
		ExportDir:         "exports",
		DBEngine:          "sqlite",
		DBPath:            "slideforge.db",
		Plan:              "free",
		MaxSlides:         200,
		MaxBlocksPerSlide: 100,
	}
}

// Load reads the config file at path. A missing file yields the defaults
// without error; a corrupt file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON, creating parent directories.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

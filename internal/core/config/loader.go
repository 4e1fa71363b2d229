package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/availability/internal/probe"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content after expanding environment variables and
// fills in defaults.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.GRPCPort == 0 {
		cfg.Server.GRPCPort = 9090
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = 1 * time.Second
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 5
	}

	if cfg.Permissions.Code == 0 {
		cfg.Permissions.Code = 1
	}
	if len(cfg.Permissions.Required) == 0 {
		cfg.Permissions.Required = []string{"location.fine", "location.coarse"}
	}

	if cfg.Settings == nil {
		cfg.Settings = make(map[string]bool)
	}
	for _, name := range []string{
		probe.SettingLocationEnabled,
		probe.SettingServicesAvailable,
		probe.SettingServicesUpdatable,
	} {
		if _, ok := cfg.Settings[name]; !ok {
			cfg.Settings[name] = true
		}
	}

	if cfg.Session.HistoryLimit == 0 {
		cfg.Session.HistoryLimit = 100
	}
}

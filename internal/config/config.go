package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	VK struct {
		AccessToken string `yaml:"access_token"`
		GroupID     string `yaml:"group_id"`
		APIVersion  string `yaml:"api_version"`
	} `yaml:"vk"`

	Aqua struct {
		BaseURL         string `yaml:"base_url"`
		SiteID          int    `yaml:"site_id"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"aqua"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Commands struct {
		Path                  string `yaml:"path"`
		ReloadIntervalSeconds int    `yaml:"reload_interval_seconds"`
	} `yaml:"commands"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.VK.APIVersion == "" {
		cfg.VK.APIVersion = "5.199"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/akvabot.db"
	}
	if cfg.Commands.Path == "" {
		cfg.Commands.Path = "configs/commands.yaml"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BackupInterval returns how often the stats database is copied aside.
func (c *Config) BackupInterval() time.Duration {
	if c.Backup.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Backup.IntervalHours) * time.Hour
}

// CommandsReloadInterval returns the hot-reload poll interval.
func (c *Config) CommandsReloadInterval() time.Duration {
	if c.Commands.ReloadIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Commands.ReloadIntervalSeconds) * time.Second
}

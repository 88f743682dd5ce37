package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Bus       BusConfig       `yaml:"bus"`
	Recommend RecommendConfig `yaml:"recommend"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type BusConfig struct {
	URL string `yaml:"url"`
}

type RecommendConfig struct {
	HistoryBoost      float64 `yaml:"history_boost"`
	HighThreshold     float64 `yaml:"high_threshold"`
	MediumThreshold   float64 `yaml:"medium_threshold"`
	RefreshIntervalMs int     `yaml:"refresh_interval_ms"`

	DefaultLatitude      float64 `yaml:"default_latitude"`
	DefaultLongitude     float64 `yaml:"default_longitude"`
	DefaultMaxDistanceKm float64 `yaml:"default_max_distance_km"`
	DefaultMaxBudget     float64 `yaml:"default_max_budget"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Recommend.RefreshIntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Bus: BusConfig{
			URL: "nats://localhost:4222",
		},
		Recommend: RecommendConfig{
			HistoryBoost:      10,
			HighThreshold:     70,
			MediumThreshold:   30,
			RefreshIntervalMs: 60000,

			DefaultLatitude:      37.7749,
			DefaultLongitude:     -122.4194,
			DefaultMaxDistanceKm: 30,
			DefaultMaxBudget:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CURATOR_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("CURATOR_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("CURATOR_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("CURATOR_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("CURATOR_BUS_URL"); v != "" {
		cfg.Bus.URL = v
	}
	if v := os.Getenv("CURATOR_HISTORY_BOOST"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Recommend.HistoryBoost = f
		}
	}
	if v := os.Getenv("CURATOR_REFRESH_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.RefreshIntervalMs = n
		}
	}
	if v := os.Getenv("CURATOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

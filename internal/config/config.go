package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"caravanshare/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Booking    BookingConfig    `yaml:"booking"`
	Reviews    ReviewsConfig    `yaml:"reviews"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Seed       SeedConfig       `yaml:"seed"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port        int             `yaml:"port"`
	CORSOrigins []string        `yaml:"cors_origins"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Lookup      LookupConfig    `yaml:"lookup"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LookupConfig throttles anonymous reservation lookups per client address.
type LookupConfig struct {
	Limit         int `yaml:"limit"`
	WindowSeconds int `yaml:"window_seconds"`
}

type DatabaseConfig struct {
	Path          string `yaml:"path"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms"`
}

type RedisConfig struct {
	Address          string `yaml:"address"`
	Password         string `yaml:"password"`
	DB               int    `yaml:"db"`
	PoolSize         int    `yaml:"pool_size"`
	LookupTTLSeconds int    `yaml:"lookup_ttl_seconds"`
}

type BookingConfig struct {
	// AutoConfirm creates reservations as CONFIRMED with a COMPLETED payment.
	// When false they start PENDING and wait for the host or a completed payment.
	AutoConfirm *bool `yaml:"auto_confirm"`
	MaxNights   int   `yaml:"max_nights"`
}

func (b BookingConfig) AutoConfirmEnabled() bool {
	return b.AutoConfirm == nil || *b.AutoConfirm
}

type ReviewsConfig struct {
	RequireConfirmedStay bool `yaml:"require_confirmed_stay"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type SeedConfig struct {
	FixturesPath string `yaml:"fixtures_path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimit.RPS < 0 {
		return errors.New("http.rate_limit.rps must not be negative")
	}
	if c.Booking.MaxNights < 0 {
		return errors.New("booking.max_nights must not be negative")
	}
	if c.Backup.Enabled && c.Backup.StoragePath == "" {
		return errors.New("backup.storage_path is required when backup is enabled")
	}
	for _, origin := range c.HTTP.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return errors.New("http.cors_origins must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "caravanshare"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3001
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}
	if c.HTTP.RateLimit.RPS > 0 && c.HTTP.RateLimit.Burst <= 0 {
		c.HTTP.RateLimit.Burst = 10
	}
	if c.HTTP.Lookup.Limit == 0 {
		c.HTTP.Lookup.Limit = models.LookupRateLimit
	}
	if c.HTTP.Lookup.WindowSeconds == 0 {
		c.HTTP.Lookup.WindowSeconds = models.LookupRateWindow
	}
	if c.Database.BusyTimeoutMS == 0 {
		c.Database.BusyTimeoutMS = 5000
	}
	if c.Redis.LookupTTLSeconds == 0 {
		c.Redis.LookupTTLSeconds = models.DefaultLookupTTL
	}
	if c.Booking.MaxNights == 0 {
		c.Booking.MaxNights = models.DefaultMaxNights
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Backup.Schedule == "" {
		c.Backup.Schedule = "24h"
	}
}

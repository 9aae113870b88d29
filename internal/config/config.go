package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Booking    BookingConfig    `yaml:"booking"`
	Exports    ExportConfig     `yaml:"exports"`
	Backup     BackupConfig     `yaml:"backup"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address      string        `yaml:"address"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	UserCacheTTL time.Duration `yaml:"user_cache_ttl"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `yaml:"prometheus_enabled"`
	TextfilePath      string `yaml:"textfile_path"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// BookingConfig holds the optional hardening switches of the booking core.
// Zero values keep the permissive behavior.
type BookingConfig struct {
	StrictTransitions bool          `yaml:"strict_transitions"`
	PreventOverlap    bool          `yaml:"prevent_overlap"`
	CreateLimit       int           `yaml:"create_limit"`
	CreateWindow      time.Duration `yaml:"create_window"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type BackupConfig struct {
	StoragePath   string `yaml:"storage_path"`
	RetentionDays int    `yaml:"retention_days"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
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
	if c.Booking.CreateLimit < 0 {
		return fmt.Errorf("booking.create_limit must not be negative, got %d", c.Booking.CreateLimit)
	}
	if c.Booking.CreateLimit > 0 && c.Booking.CreateWindow <= 0 {
		return errors.New("booking.create_window is required when booking.create_limit is set")
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.TextfilePath == "" {
		return errors.New("monitoring.textfile_path is required when prometheus is enabled")
	}
	if c.Backup.RetentionDays < 0 {
		return errors.New("backup.retention_days must not be negative")
	}
	if c.Redis.UserCacheTTL < 0 {
		return errors.New("redis.user_cache_ttl must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "shareit"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.UserCacheTTL == 0 {
		c.Redis.UserCacheTTL = 10 * time.Minute
	}
	if c.Booking.CreateLimit > 0 && c.Booking.CreateWindow == 0 {
		c.Booking.CreateWindow = time.Minute
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "backups"
	}
}

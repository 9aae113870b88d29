package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: shareit-test
database:
  path: "test.db"
booking:
  strict_transitions: true
  create_limit: 3
redis:
  address: "localhost:6379"
  user_cache_ttl: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shareit-test", cfg.App.Name)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.True(t, cfg.Booking.StrictTransitions)
	assert.False(t, cfg.Booking.PreventOverlap)
	assert.Equal(t, 3, cfg.Booking.CreateLimit)
	assert.Equal(t, time.Minute, cfg.Booking.CreateWindow)
	assert.Equal(t, 30*time.Second, cfg.Redis.UserCacheTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, "exports", cfg.Exports.Path)
	assert.Equal(t, "backups", cfg.Backup.StoragePath)
	assert.Zero(t, cfg.Backup.RetentionDays)
}

func TestLoadConfig_ExpandsEnv(t *testing.T) {
	t.Setenv("SHAREIT_DB_PATH", "/tmp/from-env.db")
	path := writeConfig(t, `
database:
  path: "${SHAREIT_DB_PATH}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.db", cfg.Database.Path)
	assert.Equal(t, "shareit", cfg.App.Name)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("BadYAML", func(t *testing.T) {
		_, err := Load(writeConfig(t, "database: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("ValidationFails", func(t *testing.T) {
		_, err := Load(writeConfig(t, "app:\n  name: x\n"))
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Database: DatabaseConfig{Path: "path"}},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "negative create limit",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Booking:  BookingConfig{CreateLimit: -1},
			},
			wantErr: true,
		},
		{
			name: "limit without window",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Booking:  BookingConfig{CreateLimit: 5},
			},
			wantErr: true,
		},
		{
			name: "negative backup retention",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Backup:   BackupConfig{RetentionDays: -1},
			},
			wantErr: true,
		},
		{
			name: "prometheus without textfile",
			cfg: Config{
				Database:   DatabaseConfig{Path: "path"},
				Monitoring: MonitoringConfig{PrometheusEnabled: true},
			},
			wantErr: true,
		},
		{
			name: "negative cache ttl",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Redis:    RedisConfig{UserCacheTTL: -time.Second},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

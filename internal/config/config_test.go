package config

import (
	"os"
	"path/filepath"
	"testing"

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
	t.Setenv("CARAVAN_DB_PATH", "data/test.db")
	path := writeConfig(t, `
app:
  name: caravanshare
http:
  port: 8088
database:
  path: "${CARAVAN_DB_PATH}"
booking:
  auto_confirm: false
reviews:
  require_confirmed_stay: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.HTTP.Port)
	assert.Equal(t, "data/test.db", cfg.Database.Path)
	assert.False(t, cfg.Booking.AutoConfirmEnabled())
	assert.True(t, cfg.Reviews.RequireConfirmedStay)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "caravans.db"
monitoring:
  prometheus_enabled: true
http:
  rate_limit:
    rps: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10, cfg.HTTP.RateLimit.Burst)
	assert.Equal(t, 30, cfg.HTTP.Lookup.Limit)
	assert.Equal(t, 60, cfg.HTTP.Lookup.WindowSeconds)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 600, cfg.Redis.LookupTTLSeconds)
	assert.Equal(t, 90, cfg.Booking.MaxNights)
	assert.True(t, cfg.Booking.AutoConfirmEnabled(), "as-built creation path confirms immediately")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Database: DatabaseConfig{Path: "db"}, HTTP: HTTPConfig{Port: 3001}},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{HTTP: HTTPConfig{Port: 3001}},
			wantErr: true,
		},
		{
			name:    "bad port",
			cfg:     Config{Database: DatabaseConfig{Path: "db"}, HTTP: HTTPConfig{Port: 70000}},
			wantErr: true,
		},
		{
			name: "backup without storage path",
			cfg: Config{
				Database: DatabaseConfig{Path: "db"},
				HTTP:     HTTPConfig{Port: 3001},
				Backup:   BackupConfig{Enabled: true},
			},
			wantErr: true,
		},
		{
			name: "empty cors origin",
			cfg: Config{
				Database: DatabaseConfig{Path: "db"},
				HTTP:     HTTPConfig{Port: 3001, CORSOrigins: []string{" "}},
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

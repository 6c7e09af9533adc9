package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GHL_API_KEY", "test-api-key")
	t.Setenv("GHL_LOCATION_ID", "loc-primary")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GHL_SECONDARY_LOCATION_ID", "loc-secondary")
	t.Setenv("GHL_BASE_URL", "https://services.leadconnectorhq.com/")
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("WEBHOOK_AUTH_TOKEN", "shared-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-api-key", cfg.GHL.APIKey)
	assert.Equal(t, "loc-primary", cfg.GHL.LocationID)
	assert.Equal(t, "https://services.leadconnectorhq.com", cfg.GHL.BaseURL)
	assert.Equal(t, []string{"loc-primary", "loc-secondary"}, cfg.GHL.AllowedLocationIDs())
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address())
	assert.Equal(t, "shared-secret", cfg.Webhook.AuthToken)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.GHL.BaseURL)
	assert.Equal(t, DefaultAPIVersion, cfg.GHL.APIVersion)
	assert.Equal(t, DefaultTimezone, cfg.GHL.DefaultTimezone)
	assert.Equal(t, DefaultAccountName, cfg.App.AccountName)
	assert.Equal(t, 30000, cfg.GHL.Timeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Notifications.SNS.Enabled)
	assert.Equal(t, []string{"loc-primary"}, cfg.GHL.AllowedLocationIDs())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GHL_API_KEY", "")
	t.Setenv("GHL_LOCATION_ID", "loc-primary")

	cfg, err := Load()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghl.api_key is required")
}

func TestLoad_MissingLocationID(t *testing.T) {
	t.Setenv("GHL_API_KEY", "key")
	t.Setenv("GHL_LOCATION_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghl.location_id is required")
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_GHL_KEY", "from-placeholder")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  account_name: Acme Clinics
ghl:
  api_key: ${TEST_GHL_KEY}
  location_id: loc-file
  default_timezone: America/Denver
  timeout: 5000
notifications:
  sns:
    enabled: true
    region: us-east-1
    topic_arn: arn:aws:sns:us-east-1:123456789012:subaccounts
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-placeholder", cfg.GHL.APIKey)
	assert.Equal(t, "loc-file", cfg.GHL.LocationID)
	assert.Equal(t, "America/Denver", cfg.GHL.DefaultTimezone)
	assert.Equal(t, "Acme Clinics", cfg.App.AccountName)
	assert.Equal(t, 5*time.Second, GetDuration(cfg.GHL.Timeout))
	assert.True(t, cfg.Notifications.SNS.Enabled)
	assert.Equal(t, "us-east-1", cfg.Notifications.SNS.Region)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.GHL.APIKey = "key"
		cfg.GHL.LocationID = "loc"
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "bad base url",
			mutate:  func(c *Config) { c.GHL.BaseURL = "ftp://example.com" },
			wantErr: "ghl.base_url",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "sns enabled without topic",
			mutate:  func(c *Config) { c.Notifications.SNS.Enabled = true },
			wantErr: "topic_arn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

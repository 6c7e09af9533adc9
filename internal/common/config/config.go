// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	GHL           GHLConfig          `mapstructure:"ghl"`
	Webhook       WebhookConfig      `mapstructure:"webhook"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	AccountName string `mapstructure:"account_name"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Address returns the host:port pair the HTTP server binds to
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GHLConfig holds the HighLevel (LeadConnector) API credentials and defaults
// applied to every sub-account this service creates.
type GHLConfig struct {
	APIKey              string `mapstructure:"api_key"`
	LocationID          string `mapstructure:"location_id"`
	SecondaryLocationID string `mapstructure:"secondary_location_id"`
	CompanyID           string `mapstructure:"company_id"`
	BaseURL             string `mapstructure:"base_url"`
	APIVersion          string `mapstructure:"api_version"`
	Timeout             int    `mapstructure:"timeout"` // milliseconds
	DefaultTimezone     string `mapstructure:"default_timezone"`
	VerifyOnStartup     bool   `mapstructure:"verify_on_startup"`
}

// AllowedLocationIDs returns the one or two location ids a webhook may originate from.
func (g GHLConfig) AllowedLocationIDs() []string {
	ids := make([]string, 0, 2)
	for _, id := range []string{g.LocationID, g.SecondaryLocationID} {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

type WebhookConfig struct {
	// AuthToken enables the shared-secret check when non-empty.
	AuthToken string `mapstructure:"auth_token"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// NotificationConfig holds settings for sub-account created notifications.
type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		Region   string `mapstructure:"region"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

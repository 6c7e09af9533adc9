package surveycompletion

import (
	"fmt"
	"strings"
	"time"

	"survey-subaccounts/internal/common/config"
)

type Config struct {
	Enabled            bool          `mapstructure:"enabled"`
	Timeout            time.Duration `mapstructure:"timeout"`
	AllowedLocationIDs []string      `mapstructure:"allowed_location_ids"`
	CompanyID          string        `mapstructure:"company_id"`
	Country            string        `mapstructure:"country"`
	DefaultTimezone    string        `mapstructure:"default_timezone"`
	AuthToken          string        `mapstructure:"auth_token"`
	MaxBodyBytes       int64         `mapstructure:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Timeout:         30 * time.Second,
		Country:         "US",
		DefaultTimezone: config.DefaultTimezone,
		MaxBodyBytes:    1 << 20,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if len(c.AllowedLocationIDs) == 0 {
		return fmt.Errorf("at least one allowed location id is required")
	}
	if len(c.AllowedLocationIDs) > 2 {
		return fmt.Errorf("at most two allowed location ids are supported, got %d", len(c.AllowedLocationIDs))
	}
	if strings.TrimSpace(c.Country) == "" {
		return fmt.Errorf("country is required")
	}
	if strings.TrimSpace(c.DefaultTimezone) == "" {
		return fmt.Errorf("default_timezone is required")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		cfg.AllowedLocationIDs = appConfig.GHL.AllowedLocationIDs()
		cfg.CompanyID = appConfig.GHL.CompanyID
		cfg.AuthToken = appConfig.Webhook.AuthToken
		if appConfig.GHL.DefaultTimezone != "" {
			cfg.DefaultTimezone = appConfig.GHL.DefaultTimezone
		}
		if appConfig.GHL.Timeout > 0 {
			cfg.Timeout = config.GetDuration(appConfig.GHL.Timeout)
		}
	}

	return cfg
}

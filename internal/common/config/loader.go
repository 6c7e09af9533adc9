package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL         = "https://rest.gohighlevel.com/v1"
	DefaultAPIVersion      = "2021-07-28"
	DefaultTimezone        = "America/Phoenix"
	DefaultAccountName     = "Cell Products"
	defaultServiceName     = "survey-subaccounts"
	defaultGHLTimeoutMS    = 30000
	defaultShutdownTimeout = 30000
)

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// base config is optional, the service runs from environment alone
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", defaultServiceName)
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.account_name", DefaultAccountName)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 45000)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)

	v.SetDefault("ghl.api_key", "")
	v.SetDefault("ghl.location_id", "")
	v.SetDefault("ghl.secondary_location_id", "")
	v.SetDefault("ghl.company_id", "")
	v.SetDefault("ghl.base_url", DefaultBaseURL)
	v.SetDefault("ghl.api_version", DefaultAPIVersion)
	v.SetDefault("ghl.timeout", defaultGHLTimeoutMS)
	v.SetDefault("ghl.default_timezone", DefaultTimezone)
	v.SetDefault("ghl.verify_on_startup", false)

	v.SetDefault("webhook.auth_token", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("notifications.sns.enabled", false)
	v.SetDefault("notifications.sns.region", "")
	v.SetDefault("notifications.sns.topic_arn", "")
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			// godotenv.Load never overrides variables already present in the process env
			if err := godotenv.Load(path); err == nil {
				fmt.Printf("✅ Loaded .env from: %s\n", path)
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig maps the short deployment variable names (HOST, PORT)
// that don't follow the section_key convention.
func overrideEmptyConfig(cfg *Config) {
	if val := os.Getenv("HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		var port int
		if _, err := fmt.Sscanf(val, "%d", &port); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = os.Getenv("APP_ENVIRONMENT")
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = defaultServiceName
	}
	if cfg.App.AccountName == "" {
		cfg.App.AccountName = DefaultAccountName
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.GHL.BaseURL == "" {
		cfg.GHL.BaseURL = DefaultBaseURL
	}
	cfg.GHL.BaseURL = strings.TrimRight(cfg.GHL.BaseURL, "/")
	if cfg.GHL.APIVersion == "" {
		cfg.GHL.APIVersion = DefaultAPIVersion
	}
	if cfg.GHL.Timeout == 0 {
		cfg.GHL.Timeout = defaultGHLTimeoutMS
	}
	if cfg.GHL.DefaultTimezone == "" {
		cfg.GHL.DefaultTimezone = DefaultTimezone
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.GHL.APIKey == "" {
		return fmt.Errorf("ghl.api_key is required (GHL_API_KEY)")
	}
	if cfg.GHL.LocationID == "" {
		return fmt.Errorf("ghl.location_id is required (GHL_LOCATION_ID)")
	}
	if !strings.HasPrefix(cfg.GHL.BaseURL, "http://") && !strings.HasPrefix(cfg.GHL.BaseURL, "https://") {
		return fmt.Errorf("ghl.base_url must be an http(s) URL, got %q", cfg.GHL.BaseURL)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns notifications are enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all engine configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig
	Logger      LoggerConfig

	// Sync engine specifics
	API      APIConfig
	Cache    CacheConfig
	Calendar CalendarConfig
	Sync     SyncConfig
}

type EnvironmentConfig struct {
	Name string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// APIConfig describes the remote backend the engine reconciles against.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CacheConfig struct {
	Directory string
}

type CalendarConfig struct {
	// InitialWindowMonths is the span fetched on first load, in months
	// before and after the current date.
	InitialWindowMonths int
	PollInterval        time.Duration
	Timezone            string

	// Optional direct Google Calendar source. When CredentialsPath is
	// empty the backend calendar endpoint is the only event source.
	CredentialsPath string
	CalendarID      string
}

type SyncConfig struct {
	// ReconcileTimeout bounds each background reconciliation call.
	ReconcileTimeout time.Duration
	// BackgroundRPS limits gateway traffic from polls and reconciles.
	BackgroundRPS float64
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.API.BaseURL = viper.GetString("api.base_url")
	cfg.API.Timeout = viper.GetDuration("api.timeout")
	if apiURL := viper.GetString("api_base_url"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required - set api.base_url in config.yaml or API_BASE_URL")
	}

	cfg.Cache.Directory = viper.GetString("cache.directory")

	cfg.Calendar.InitialWindowMonths = viper.GetInt("calendar.initial_window_months")
	cfg.Calendar.PollInterval = viper.GetDuration("calendar.poll_interval")
	cfg.Calendar.Timezone = viper.GetString("calendar.timezone")
	cfg.Calendar.CredentialsPath = viper.GetString("calendar.credentials_path")
	cfg.Calendar.CalendarID = viper.GetString("calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.Calendar.CredentialsPath = googleCreds
	}

	cfg.Sync.ReconcileTimeout = viper.GetDuration("sync.reconcile_timeout")
	cfg.Sync.BackgroundRPS = viper.GetFloat64("sync.background_rps")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("api.timeout", "10s")
	viper.SetDefault("cache.directory", ".todofast-cache")
	viper.SetDefault("calendar.initial_window_months", 1)
	viper.SetDefault("calendar.poll_interval", "5s")
	viper.SetDefault("calendar.timezone", "Asia/Jerusalem")
	viper.SetDefault("calendar.calendar_id", "primary")
	viper.SetDefault("sync.reconcile_timeout", "2m")
	viper.SetDefault("sync.background_rps", 2)
}

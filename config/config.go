package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/icodeforyou/spotboard-go/logging"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int
	// If not assigned, the server will serve embedded files.
	// If assigned, the server will serve files from the directory,
	// that must contain a "static" and "templates" directory.
	// This is useful for development.
	WwwDir *string `mapstructure:"www_dir"`
}

type AppConfigEnergiDataService struct {
	BaseURL   string        `mapstructure:"base_url"`
	PriceArea string        `mapstructure:"price_area"` // "DK1" or "DK2"
	Timeout   time.Duration `mapstructure:"timeout"`    // Per request, e.g. "10s"
	// Number of minute records asked for from PowerSystemRightNow, 0 means the API default
	GenerationLimit int `mapstructure:"generation_limit"`
}

type AppConfigDashboard struct {
	// Timezone of the price area, "now" is taken on this wall clock, default: Europe/Copenhagen
	Timezone *string `mapstructure:"timezone"`
	// Fetch prices and generation mix at the same time instead of one after the other
	ConcurrentFetch bool `mapstructure:"concurrent_fetch"`
	// How often the live green share is pushed to open pages
	LiveInterval time.Duration `mapstructure:"live_interval"`
}

func (d AppConfigDashboard) GetTimezone() string {
	if d.Timezone == nil {
		return "Europe/Copenhagen"
	}
	return *d.Timezone
}

type AppConfigLogging struct {
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
	// Optional file that gets a JSON copy of the log
	File *string `mapstructure:"file"`
	// Min log level for the file, default: "INFO"
	FileLevel *string `mapstructure:"file_level"`
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

func (l AppConfigLogging) GetFileLevel() slog.Level {
	return logging.LevelFromString(l.FileLevel)
}

type AppConfigProbe struct {
	// Cron expression for assembling the dashboard in the background and logging
	// the headline figures, empty disables it
	RunAt string `mapstructure:"run_at"`
}

type AppConfig struct {
	Api               AppConfigApi
	EnergiDataService AppConfigEnergiDataService `mapstructure:"energi_data_service"`
	Dashboard         AppConfigDashboard         `mapstructure:"dashboard"`
	Logging           AppConfigLogging           `mapstructure:"logging"`
	Probe             AppConfigProbe             `mapstructure:"probe"`
}

func (c AppConfig) Validate() error {
	if c.Api.Port <= 0 || c.Api.Port > 65535 {
		return fmt.Errorf("api.port %d is out of range", c.Api.Port)
	}
	if c.EnergiDataService.PriceArea == "" {
		return fmt.Errorf("energi_data_service.price_area is required")
	}
	if _, err := url.ParseRequestURI(c.EnergiDataService.BaseURL); err != nil {
		return fmt.Errorf("failed to parse energi_data_service.base_url (%s): %w", c.EnergiDataService.BaseURL, err)
	}
	if c.EnergiDataService.Timeout <= 0 {
		return fmt.Errorf("energi_data_service.timeout must be positive")
	}
	if c.Dashboard.LiveInterval <= 0 {
		return fmt.Errorf("dashboard.live_interval must be positive")
	}
	if c.Probe.RunAt != "" {
		if _, err := cron.ParseStandard(c.Probe.RunAt); err != nil {
			return fmt.Errorf("failed to parse probe.run_at (%s): %w", c.Probe.RunAt, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.address", "")
	v.SetDefault("api.port", 8000)
	v.SetDefault("energi_data_service.base_url", "https://api.energidataservice.dk")
	v.SetDefault("energi_data_service.price_area", "DK2")
	v.SetDefault("energi_data_service.timeout", "10s")
	v.SetDefault("energi_data_service.generation_limit", 100)
	v.SetDefault("dashboard.concurrent_fetch", false)
	v.SetDefault("dashboard.live_interval", "60s")
	v.SetDefault("probe.run_at", "")
}

// Optional keys without a default are only picked up from the environment when bound.
var envOnlyKeys = []string{
	"api.www_dir",
	"dashboard.timezone",
	"logging.console_level",
	"logging.file",
	"logging.file_level",
}

// Load reads the config file at path, or config/config.yaml when path is
// empty. A missing default config file is fine, defaults and the environment
// are used then.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("unable to bind env for %s: %w", key, err)
		}
	}

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}

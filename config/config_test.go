package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testConfig = `
api:
  port: 8080
  www_dir: ./www
energi_data_service:
  price_area: DK1
  timeout: 3s
  generation_limit: 10
dashboard:
  timezone: UTC
  concurrent_fetch: true
logging:
  console_level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Api", func(t *testing.T) {
		if config.Api.Port != 8080 {
			t.Errorf("Expected port 8080, got %d", config.Api.Port)
		}
		if config.Api.WwwDir == nil || *config.Api.WwwDir != "./www" {
			t.Errorf("Expected www dir ./www, got %v", config.Api.WwwDir)
		}
	})

	t.Run("Energi Data Service", func(t *testing.T) {
		eds := config.EnergiDataService
		if eds.PriceArea != "DK1" {
			t.Errorf("Expected price area DK1, got %s", eds.PriceArea)
		}
		if eds.Timeout != 3*time.Second {
			t.Errorf("Expected timeout 3s, got %s", eds.Timeout)
		}
		if eds.GenerationLimit != 10 {
			t.Errorf("Expected generation limit 10, got %d", eds.GenerationLimit)
		}
		if eds.BaseURL != "https://api.energidataservice.dk" {
			t.Errorf("Expected default base url, got %s", eds.BaseURL)
		}
	})

	t.Run("Dashboard", func(t *testing.T) {
		if config.Dashboard.GetTimezone() != "UTC" {
			t.Errorf("Expected timezone UTC, got %s", config.Dashboard.GetTimezone())
		}
		if !config.Dashboard.ConcurrentFetch {
			t.Errorf("Expected concurrent fetch")
		}
		if config.Dashboard.LiveInterval != time.Minute {
			t.Errorf("Expected default live interval 1m, got %s", config.Dashboard.LiveInterval)
		}
	})

	t.Run("Logging", func(t *testing.T) {
		if config.Logging.GetConsoleLevel() != slog.LevelDebug {
			t.Errorf("Expected console level DEBUG, got %s", config.Logging.GetConsoleLevel())
		}
		if config.Logging.GetFileLevel() != slog.LevelInfo {
			t.Errorf("Expected file level INFO, got %s", config.Logging.GetFileLevel())
		}
	})

	if err := config.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ENERGI_DATA_SERVICE_PRICE_AREA", "DK2")
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOGGING_FILE", "/tmp/spotboard.log")

	config, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.EnergiDataService.PriceArea != "DK2" {
		t.Errorf("Expected price area DK2 from env, got %s", config.EnergiDataService.PriceArea)
	}
	if config.Api.Port != 9000 {
		t.Errorf("Expected port 9000 from env, got %d", config.Api.Port)
	}
	if config.Logging.File == nil || *config.Logging.File != "/tmp/spotboard.log" {
		t.Errorf("Expected log file from env, got %v", config.Logging.File)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := Load("")
	if err != nil {
		t.Fatalf("Expected a missing default config file to be fine, got %v", err)
	}
	if config.Api.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", config.Api.Port)
	}
	if config.EnergiDataService.PriceArea != "DK2" {
		t.Errorf("Expected default price area DK2, got %s", config.EnergiDataService.PriceArea)
	}
	if config.Dashboard.GetTimezone() != "Europe/Copenhagen" {
		t.Errorf("Expected default timezone, got %s", config.Dashboard.GetTimezone())
	}
	if config.Probe.RunAt != "" {
		t.Errorf("Expected probe to be disabled, got %q", config.Probe.RunAt)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("Expected an error for an explicit config file that doesn't exist")
	}
}

func TestValidate(t *testing.T) {
	valid := func() AppConfig {
		return AppConfig{
			Api: AppConfigApi{Port: 8000},
			EnergiDataService: AppConfigEnergiDataService{
				BaseURL:   "https://api.energidataservice.dk",
				PriceArea: "DK2",
				Timeout:   time.Second,
			},
			Dashboard: AppConfigDashboard{LiveInterval: time.Minute},
		}
	}

	tests := []struct {
		name   string
		modify func(*AppConfig)
	}{
		{"port", func(c *AppConfig) { c.Api.Port = 0 }},
		{"price area", func(c *AppConfig) { c.EnergiDataService.PriceArea = "" }},
		{"base url", func(c *AppConfig) { c.EnergiDataService.BaseURL = "not a url" }},
		{"timeout", func(c *AppConfig) { c.EnergiDataService.Timeout = 0 }},
		{"live interval", func(c *AppConfig) { c.Dashboard.LiveInterval = 0 }},
		{"probe run at", func(c *AppConfig) { c.Probe.RunAt = "every now and then" }},
	}

	c := valid()
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}
	c.Probe.RunAt = "*/15 * * * *"
	if err := c.Validate(); err != nil {
		t.Fatalf("Expected valid probe schedule, got %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(&c)
			if err := c.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

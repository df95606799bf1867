package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"MetalWatch/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`
	} `yaml:"server"`
	DataSource struct {
		MetalPriceAPIKey   string `yaml:"metalprice_api_key" envconfig:"METALPRICEAPI_KEY"`
		ExaAPIKey          string `yaml:"exa_api_key" envconfig:"EXA_API_KEY"`
		ExchangeRateAPIKey string `yaml:"exchangerate_api_key" envconfig:"EXCHANGERATE_API_KEY"`
		CerebrasAPIKey     string `yaml:"cerebras_api_key" envconfig:"CEREBRAS_API_KEY"`
	} `yaml:"data_source"`
	Watch struct {
		Cron     string   `yaml:"cron" envconfig:"WATCH_CRON"`
		Metals   []string `yaml:"metals" envconfig:"WATCH_METALS"`
		Period   string   `yaml:"period" envconfig:"WATCH_PERIOD"`
		Currency string   `yaml:"currency" envconfig:"WATCH_CURRENCY"`
	} `yaml:"watch"`
	Alert struct {
		Enabled          bool    `yaml:"enabled" envconfig:"ALERT_ENABLED"`
		Mode             string  `yaml:"mode" envconfig:"ALERT_MODE"`
		ThresholdPercent float64 `yaml:"threshold_percent" envconfig:"ALERT_THRESHOLD"`
		Recipient        string  `yaml:"recipient" envconfig:"ALERT_RECIPIENT"`
	} `yaml:"alert"`
	SMTP struct {
		Server   string `yaml:"server" envconfig:"SMTP_SERVER"`
		Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
		Email    string `yaml:"email" envconfig:"SMTP_EMAIL"`
		Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
	} `yaml:"smtp"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
}

// Load reads config from a .env file (if present), a YAML file, and finally
// environment variable overrides. Missing files are fine; everything has a
// default except the API keys, whose absence switches the service to mock data.
func Load(path string) (*Config, error) {
	// .env for local development, matching the provider key names.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	applyDefaults(cfg)

	// Threshold is clamped here at the input boundary, never inside the
	// analyzer.
	cfg.Alert.ThresholdPercent = model.ClampThreshold(cfg.Alert.ThresholdPercent)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Watch.Cron == "" {
		cfg.Watch.Cron = "0 0 * * * *" // hourly
	}
	if len(cfg.Watch.Metals) == 0 {
		cfg.Watch.Metals = []string{string(model.MetalGold), string(model.MetalSilver)}
	}
	if cfg.Watch.Period == "" {
		cfg.Watch.Period = string(model.PeriodWeek)
	}
	if cfg.Watch.Currency == "" {
		cfg.Watch.Currency = string(model.CurrencyUSD)
	}
	if cfg.Alert.Mode == "" {
		cfg.Alert.Mode = string(model.AlertModeBoth)
	}
	if cfg.Alert.ThresholdPercent == 0 {
		cfg.Alert.ThresholdPercent = 5
	}
	if cfg.SMTP.Server == "" {
		cfg.SMTP.Server = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
}

// Validate checks the parseable enum fields. API keys are deliberately not
// required: their absence is a normal, handled condition.
func (c *Config) Validate() error {
	for _, m := range c.Watch.Metals {
		if _, err := model.ParseMetal(m); err != nil {
			return fmt.Errorf("watch.metals: %w", err)
		}
	}
	if _, err := model.ParsePeriod(c.Watch.Period); err != nil {
		return fmt.Errorf("watch.period: %w", err)
	}
	if _, err := model.ParseCurrency(c.Watch.Currency); err != nil {
		return fmt.Errorf("watch.currency: %w", err)
	}
	if _, err := model.ParseAlertMode(c.Alert.Mode); err != nil {
		return fmt.Errorf("alert.mode: %w", err)
	}
	if c.Alert.Enabled && c.Alert.Recipient == "" && c.SMTP.Email != "" {
		return fmt.Errorf("alert.recipient is required when alerts and smtp are configured")
	}
	return nil
}

// AlertConfig builds the immutable analyzer settings from this config.
func (c *Config) AlertConfig() model.AlertConfig {
	mode, err := model.ParseAlertMode(c.Alert.Mode)
	if err != nil {
		mode = model.AlertModeBoth
	}
	return model.AlertConfig{
		Enabled:          c.Alert.Enabled,
		Mode:             mode,
		ThresholdPercent: model.ClampThreshold(c.Alert.ThresholdPercent),
	}
}

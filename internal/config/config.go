package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Scenario struct {
		Path string `yaml:"path"`
	} `yaml:"scenario"`
	Weighting struct {
		ZeroShareIsOverride bool `yaml:"zero_share_is_override"`
	} `yaml:"weighting"`
	Export struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"export"`
	Schedule struct {
		BatchCron string `yaml:"batch_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
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

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SCENARIO_PATH"); v != "" {
		cfg.Scenario.Path = v
	}
	if v := os.Getenv("ZERO_SHARE_IS_OVERRIDE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Weighting.ZeroShareIsOverride = b
		}
	}
	if v := os.Getenv("EXPORT_CSV_PATH"); v != "" {
		cfg.Export.CSVPath = v
	}
	if v := os.Getenv("CRON_BATCH"); v != "" {
		cfg.Schedule.BatchCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Scenario.Path == "" {
		cfg.Scenario.Path = "configs/scenario.yaml"
	}
	if cfg.Export.CSVPath == "" {
		cfg.Export.CSVPath = "data/company_estimates.csv"
	}

	return cfg, nil
}

// Validate checks that required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Scenario.Path == "" {
		return fmt.Errorf("scenario.path is required")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Schedule.BatchCron != "" {
		parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Schedule.BatchCron); err != nil {
			return fmt.Errorf("schedule.batch_cron: %w", err)
		}
	}
	return nil
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

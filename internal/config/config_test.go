package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SCENARIO_PATH", "ZERO_SHARE_IS_OVERRIDE",
		"EXPORT_CSV_PATH", "CRON_BATCH", "SQLITE_PATH", "HTTPS_PROXY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scenario.Path != "configs/scenario.yaml" {
		t.Errorf("scenario default: %q", cfg.Scenario.Path)
	}
	if cfg.Export.CSVPath != "data/company_estimates.csv" {
		t.Errorf("csv default: %q", cfg.Export.CSVPath)
	}
	if cfg.Weighting.ZeroShareIsOverride {
		t.Error("zero share should default to no override")
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
scenario:
  path: scenarios/pharma.yaml
weighting:
  zero_share_is_override: true
export:
  csv_path: out/pharma.csv
schedule:
  batch_cron: "0 0 6 * * 1"
database:
  sqlite_path: data/runs.db
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SQLITE_PATH", "/tmp/override.db")
	t.Setenv("ZERO_SHARE_IS_OVERRIDE", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scenario.Path != "scenarios/pharma.yaml" || cfg.Export.CSVPath != "out/pharma.csv" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Database.SQLitePath != "/tmp/override.db" {
		t.Errorf("env override not applied: %q", cfg.Database.SQLitePath)
	}
	if cfg.Weighting.ZeroShareIsOverride {
		t.Error("env should turn zero share override off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("scenario: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, _ := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	cfg.Telegram.BotToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when chat id is missing")
	}
	cfg.Telegram.ChatID = "42"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Schedule.BatchCron = "not a cron"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad cron expression")
	}
	cfg.Schedule.BatchCron = "@daily"
	if err := cfg.Validate(); err != nil {
		t.Errorf("descriptor should be accepted: %v", err)
	}
}

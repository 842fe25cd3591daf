package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"BidSentinel/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Budget.ActionLimit != 500 || cfg.Budget.Window != time.Hour {
		t.Errorf("unexpected budget defaults %+v", cfg.Budget)
	}
	if cfg.Timing.CyclePause != (Span{Min: time.Second, Max: 3 * time.Second}) {
		t.Errorf("unexpected cycle pause %+v", cfg.Timing.CyclePause)
	}
	if cfg.Timing.WatchListAttempts != 2 || cfg.Timing.WatchListDelay != 15*time.Second {
		t.Errorf("unexpected watch list retry defaults %+v", cfg.Timing)
	}
	if cfg.Schedule.ReportCron != "0 0 * * * *" || cfg.API.Addr != ":8080" {
		t.Errorf("unexpected defaults %+v %+v", cfg.Schedule, cfg.API)
	}
	if !cfg.UseSimulator() {
		t.Error("no base_url should select the simulator")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
market:
  base_url: https://market.example
  session_token: sid
trading:
  coin_limit: 2000
  targets:
    - item_id: 7
      max_price: 600
budget:
  window: 30m
timing:
  sweep_pause: {min: 5s, max: 10s}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UseSimulator() {
		t.Error("base_url without dry_run should use the live client")
	}
	if cfg.Trading.CoinLimit != 2000 || len(cfg.Trading.Targets) != 1 || cfg.Trading.Targets[0].MaxPrice != 600 {
		t.Errorf("unexpected trading section %+v", cfg.Trading)
	}
	if cfg.Budget.Window != 30*time.Minute {
		t.Errorf("expected 30m window, got %s", cfg.Budget.Window)
	}
	if cfg.Timing.SweepPause != (Span{Min: 5 * time.Second, Max: 10 * time.Second}) {
		t.Errorf("unexpected sweep pause %+v", cfg.Timing.SweepPause)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "trading:\n  coin_limit: 10\n")
	t.Setenv("COIN_LIMIT", "5000")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("MARKET_BASE_URL", "https://market.example")
	t.Setenv("REPORT_CRON", "0 */30 * * * *")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trading.CoinLimit != 5000 {
		t.Errorf("expected env coin limit, got %d", cfg.Trading.CoinLimit)
	}
	if !cfg.UseSimulator() {
		t.Error("DRY_RUN should force the simulator")
	}
	if cfg.Schedule.ReportCron != "0 */30 * * * *" {
		t.Errorf("unexpected cron %q", cfg.Schedule.ReportCron)
	}

	t.Setenv("COIN_LIMIT", "lots")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for a non-numeric COIN_LIMIT")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"live without token", func(c *Config) { c.Market.BaseURL = "https://m" }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"negative coin limit", func(c *Config) { c.Trading.CoinLimit = -1 }},
		{"bad target", func(c *Config) { c.Trading.Targets = append(c.Trading.Targets, model.Target{ItemID: 7}) }},
		{"inverted span", func(c *Config) { c.Timing.BidPause = Span{Min: 2 * time.Second, Max: time.Second} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.edit(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

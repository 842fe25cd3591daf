package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"BidSentinel/internal/model"
)

// Span is a randomized pause range.
type Span struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Config holds all application configuration.
type Config struct {
	Market struct {
		BaseURL          string `yaml:"base_url"`
		SessionToken     string `yaml:"session_token"`
		Proxy            string `yaml:"proxy"`
		DryRun           bool   `yaml:"dry_run"`
		SimulatorBalance int    `yaml:"simulator_balance"`
	} `yaml:"market"`
	Trading struct {
		CoinLimit int            `yaml:"coin_limit"`
		AutoStart bool           `yaml:"auto_start"`
		Targets   []model.Target `yaml:"targets"`
	} `yaml:"trading"`
	Budget struct {
		ActionLimit int           `yaml:"action_limit"`
		Window      time.Duration `yaml:"window"`
		StateFile   string        `yaml:"state_file"`
	} `yaml:"budget"`
	Timing struct {
		CyclePause         Span          `yaml:"cycle_pause"`
		SweepPause         Span          `yaml:"sweep_pause"`
		BidPause           Span          `yaml:"bid_pause"`
		TargetPause        Span          `yaml:"target_pause"`
		BuyNowSearchPause  Span          `yaml:"buy_now_search_pause"`
		BuyNowMaxDuration  time.Duration `yaml:"buy_now_max_duration"`
		BuyNowExpiryMargin time.Duration `yaml:"buy_now_expiry_margin"`
		BuyNowSearchLimit  int           `yaml:"buy_now_search_limit"`
		BuyNowRest         time.Duration `yaml:"buy_now_rest"`
		WatchListAttempts  int           `yaml:"watch_list_attempts"`
		WatchListDelay     time.Duration `yaml:"watch_list_delay"`
	} `yaml:"timing"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"api"`
	Schedule struct {
		ReportCron string `yaml:"report_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields an all-default config.
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

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MARKET_BASE_URL"); v != "" {
		c.Market.BaseURL = v
	}
	if v := os.Getenv("MARKET_SESSION_TOKEN"); v != "" {
		c.Market.SessionToken = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Market.Proxy = v
	}
	if v := os.Getenv("DRY_RUN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse DRY_RUN: %w", err)
		}
		c.Market.DryRun = b
	}
	if v := os.Getenv("COIN_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse COIN_LIMIT: %w", err)
		}
		c.Trading.CoinLimit = n
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("BUDGET_STATE_FILE"); v != "" {
		c.Budget.StateFile = v
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("REPORT_CRON"); v != "" {
		c.Schedule.ReportCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Market.SimulatorBalance == 0 {
		c.Market.SimulatorBalance = 50000
	}
	if c.Budget.ActionLimit == 0 {
		c.Budget.ActionLimit = 500
	}
	if c.Budget.Window == 0 {
		c.Budget.Window = time.Hour
	}
	if c.Budget.StateFile == "" {
		c.Budget.StateFile = "data/budget_state.json"
	}

	t := &c.Timing
	defaultSpan(&t.CyclePause, 1*time.Second, 3*time.Second)
	defaultSpan(&t.SweepPause, 20*time.Second, 40*time.Second)
	defaultSpan(&t.BidPause, 1*time.Second, 4*time.Second)
	defaultSpan(&t.TargetPause, 6*time.Second, 12*time.Second)
	defaultSpan(&t.BuyNowSearchPause, 1*time.Second, 2*time.Second)
	if t.BuyNowMaxDuration == 0 {
		t.BuyNowMaxDuration = 100 * time.Second
	}
	if t.BuyNowExpiryMargin == 0 {
		t.BuyNowExpiryMargin = 50 * time.Second
	}
	if t.BuyNowSearchLimit == 0 {
		t.BuyNowSearchLimit = 15
	}
	if t.BuyNowRest == 0 {
		t.BuyNowRest = 10 * time.Second
	}
	if t.WatchListAttempts == 0 {
		t.WatchListAttempts = 2
	}
	if t.WatchListDelay == 0 {
		t.WatchListDelay = 15 * time.Second
	}

	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/bid_sentinel.db"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
	if c.Schedule.ReportCron == "" {
		c.Schedule.ReportCron = "0 0 * * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func defaultSpan(sp *Span, min, max time.Duration) {
	if sp.Min == 0 && sp.Max == 0 {
		sp.Min, sp.Max = min, max
	}
}

// UseSimulator reports whether trading runs against the in-memory market.
func (c *Config) UseSimulator() bool {
	return c.Market.DryRun || c.Market.BaseURL == ""
}

// TelegramEnabled reports whether Telegram credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !c.UseSimulator() && c.Market.SessionToken == "" {
		return fmt.Errorf("market.session_token is required with market.base_url")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Trading.CoinLimit < 0 {
		return fmt.Errorf("trading.coin_limit must not be negative")
	}
	for i, t := range c.Trading.Targets {
		if t.ItemID <= 0 || t.MaxPrice <= 0 {
			return fmt.Errorf("trading.targets[%d]: item_id and max_price must be positive", i)
		}
	}
	if c.Budget.ActionLimit < 0 {
		return fmt.Errorf("budget.action_limit must be positive")
	}
	if c.Budget.Window < 0 {
		return fmt.Errorf("budget.window must be positive")
	}
	spans := map[string]Span{
		"cycle_pause":          c.Timing.CyclePause,
		"sweep_pause":          c.Timing.SweepPause,
		"bid_pause":            c.Timing.BidPause,
		"target_pause":         c.Timing.TargetPause,
		"buy_now_search_pause": c.Timing.BuyNowSearchPause,
	}
	for name, sp := range spans {
		if sp.Min < 0 || sp.Max < sp.Min {
			return fmt.Errorf("timing.%s: need 0 <= min <= max", name)
		}
	}
	if c.Timing.BuyNowSearchLimit < 0 || c.Timing.WatchListAttempts < 0 {
		return fmt.Errorf("timing: counts must not be negative")
	}
	return nil
}

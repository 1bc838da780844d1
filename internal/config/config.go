package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"HedgeMirror/internal/logging"
	"HedgeMirror/internal/portfolio"
	"HedgeMirror/internal/strategy"
)

// FundConfig names a fund and the directory holding its disclosure files.
type FundConfig struct {
	Name      string `yaml:"name"`
	Directory string `yaml:"directory"`
}

// Config holds all application configuration.
type Config struct {
	Funds      []FundConfig `yaml:"funds"`
	Evaluation struct {
		HoldingWeeks    int      `yaml:"holding_weeks"`
		Benchmark       string   `yaml:"benchmark"`
		Principal       float64  `yaml:"principal"`
		ValueMultiplier float64  `yaml:"value_multiplier"`
		Denominator     string   `yaml:"denominator"`
		TieBreak        string   `yaml:"tie_break"`
		MaxGapDays      int      `yaml:"max_gap_days"`
		Approaches      []string `yaml:"approaches"`
	} `yaml:"evaluation"`
	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Retries        int    `yaml:"retries"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		EvaluateCron string `yaml:"evaluate_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
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
	if v := os.Getenv("HEDGEMIRROR_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HEDGEMIRROR_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HEDGEMIRROR_BENCHMARK"); v != "" {
		cfg.Evaluation.Benchmark = v
	}
	if v := os.Getenv("HEDGEMIRROR_HOLDING_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Evaluation.HoldingWeeks = n
		}
	}
	if v := os.Getenv("HEDGEMIRROR_PRINCIPAL"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Evaluation.Principal = p
		}
	}
	if v := os.Getenv("CRON_EVALUATE"); v != "" {
		cfg.Schedule.EvaluateCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Evaluation.HoldingWeeks == 0 {
		cfg.Evaluation.HoldingWeeks = 13
	}
	if cfg.Evaluation.Benchmark == "" {
		cfg.Evaluation.Benchmark = "VOO"
	}
	if cfg.Evaluation.Principal == 0 {
		cfg.Evaluation.Principal = 10000
	}
	if cfg.Evaluation.ValueMultiplier == 0 {
		cfg.Evaluation.ValueMultiplier = 1000
	}
	if cfg.Evaluation.Denominator == "" {
		cfg.Evaluation.Denominator = string(strategy.AllDisclosed)
	}
	if cfg.Evaluation.TieBreak == "" {
		cfg.Evaluation.TieBreak = "earlier"
	}
	if len(cfg.Evaluation.Approaches) == 0 {
		cfg.Evaluation.Approaches = []string{"simple"}
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.DataSource.Retries == 0 {
		cfg.DataSource.Retries = 2
	}
	if cfg.Schedule.EvaluateCron == "" {
		cfg.Schedule.EvaluateCron = "0 0 9 15 2,5,8,11 *"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks the evaluation settings and the fund list.
func (c *Config) Validate() error {
	if len(c.Funds) == 0 {
		return fmt.Errorf("at least one fund is required")
	}
	seen := make(map[string]bool)
	for i, f := range c.Funds {
		if f.Name == "" {
			return fmt.Errorf("funds[%d].name is required", i)
		}
		if f.Directory == "" {
			return fmt.Errorf("funds[%d].directory is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate fund %q", f.Name)
		}
		seen[f.Name] = true
	}
	if c.Evaluation.HoldingWeeks <= 0 {
		return fmt.Errorf("evaluation.holding_weeks must be positive")
	}
	if c.Evaluation.Principal <= 0 {
		return fmt.Errorf("evaluation.principal must be positive")
	}
	if c.Evaluation.MaxGapDays < 0 {
		return fmt.Errorf("evaluation.max_gap_days must not be negative")
	}
	if _, err := c.Policies(); err != nil {
		return err
	}
	if _, err := c.MatchOptions(); err != nil {
		return err
	}
	return nil
}

// ValidateTelegram checks the settings the watch mode needs.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// Policies resolves the configured approaches with the configured denominator.
func (c *Config) Policies() ([]strategy.Policy, error) {
	d, err := strategy.ParseDenominator(c.Evaluation.Denominator)
	if err != nil {
		return nil, fmt.Errorf("evaluation.denominator: %w", err)
	}
	var out []strategy.Policy
	for _, name := range c.Evaluation.Approaches {
		p, err := strategy.Lookup(name, d)
		if err != nil {
			return nil, fmt.Errorf("evaluation.approaches: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// MatchOptions returns the date-matching options.
func (c *Config) MatchOptions() (portfolio.Options, error) {
	tie, err := portfolio.ParseTieBreak(c.Evaluation.TieBreak)
	if err != nil {
		return portfolio.Options{}, fmt.Errorf("evaluation.tie_break: %w", err)
	}
	return portfolio.Options{
		TieBreak: tie,
		MaxGap:   time.Duration(c.Evaluation.MaxGapDays) * 24 * time.Hour,
	}, nil
}

// Timeout is the per-request timeout of the price source.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DataSource.TimeoutSeconds) * time.Second
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.Log.Level,
		Console:    true,
		FilePath:   c.Log.File,
		MaxSize:    c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAgeDays,
	}
}

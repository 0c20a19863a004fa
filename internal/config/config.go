// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/nordvik/pulse/internal/core"
	"github.com/nordvik/pulse/internal/risk"
	"github.com/spf13/viper"
)

type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Risk     risk.Config    `mapstructure:"risk"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	Market   MarketConfig   `mapstructure:"market"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// BotConfig holds the live trading loop settings.
type BotConfig struct {
	Symbol         string  `mapstructure:"symbol"`
	Interval       string  `mapstructure:"interval"`
	Model          string  `mapstructure:"model"`
	CycleSeconds   int     `mapstructure:"cycle_seconds"`
	HistoryBars    int     `mapstructure:"history_bars"`
	RiskPct        float64 `mapstructure:"risk_pct"`
	InitialCapital float64 `mapstructure:"initial_capital"`
	MinConfidence  float64 `mapstructure:"min_confidence"`
}

// BacktestConfig holds backtest simulation settings.
type BacktestConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	Warmup         int     `mapstructure:"warmup"`
	RiskPct        float64 `mapstructure:"risk_pct"`
}

// MarketConfig holds market data provider settings.
type MarketConfig struct {
	Providers []string `mapstructure:"providers"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// MetricsConfig holds metrics exposition settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Bot: BotConfig{
			Symbol:         "BTC-EUR",
			Interval:       "1h",
			Model:          "baseline",
			CycleSeconds:   10,
			HistoryBars:    200,
			RiskPct:        2.0,
			InitialCapital: 10000,
			MinConfidence:  0.6,
		},
		Risk: risk.DefaultConfig(),
		Backtest: BacktestConfig{
			InitialCapital: 10000,
			Warmup:         50,
			RiskPct:        2.0,
		},
		Market: MarketConfig{
			Providers: []string{"coinbase", "binance"},
		},
		Logging: LoggingConfig{
			Development: false,
			Level:       "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Bot validation
	if c.Bot.Symbol == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("bot symbol is required"))
	}
	if c.Bot.CycleSeconds < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cycle_seconds must be positive, got %d", c.Bot.CycleSeconds))
	}
	if c.Bot.RiskPct <= 0 || c.Bot.RiskPct > 100 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("risk_pct must be in (0, 100], got %f", c.Bot.RiskPct))
	}

	// Risk validation
	if c.Risk.MinSignalConfidence < 0 || c.Risk.MinSignalConfidence > 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_signal_confidence must be between 0 and 1, got %f", c.Risk.MinSignalConfidence))
	}
	if c.Risk.TradeCooldownSeconds < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trade_cooldown_seconds cannot be negative, got %d", c.Risk.TradeCooldownSeconds))
	}
	if c.Risk.MaxPositionEUR <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_position_eur must be positive, got %f", c.Risk.MaxPositionEUR))
	}

	// Backtest validation
	if c.Backtest.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital must be positive, got %f", c.Backtest.InitialCapital))
	}
	if c.Backtest.Warmup < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("warmup must be positive, got %d", c.Backtest.Warmup))
	}

	// Market validation
	for _, p := range c.Market.Providers {
		switch p {
		case "coinbase", "binance":
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown market provider %q", p))
		}
	}

	return nil
}

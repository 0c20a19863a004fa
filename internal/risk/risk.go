// Package risk evaluates proposed trades against configured limits.
package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/nordvik/pulse/internal/core"
)

// AccountRepo provides the account state the gate reads.
type AccountRepo interface {
	// PositionValueEUR returns the current open position value for the
	// symbol in quote currency.
	PositionValueEUR(ctx context.Context, symbol string) (float64, error)
}

// TradeRepo provides trade history snapshots the gate reads.
type TradeRepo interface {
	TodayRealizedPnLEUR(ctx context.Context) (float64, error)
	TradesCountToday(ctx context.Context) (int, error)
	// LastTradeTime returns the time of the most recent trade for the
	// symbol; ok is false when no trade exists.
	LastTradeTime(ctx context.Context, symbol string) (time.Time, bool, error)
}

// MarketData provides order book snapshots for the spread check.
type MarketData interface {
	// OrderbookTop returns the best bid and ask; ok is false when either
	// side of the book is unquoted.
	OrderbookTop(ctx context.Context, symbol string) (bid, ask float64, ok bool, err error)
}

// Config holds the pre-trade risk limits. Gate limits feed
// CanOpenPosition; the remaining fields feed the static Validator.
type Config struct {
	MaxPositionEUR       float64 `mapstructure:"max_position_eur"`
	MaxDailyLossEUR      float64 `mapstructure:"max_daily_loss_eur"`
	MaxTradesPerDay      int     `mapstructure:"max_trades_per_day"`
	TradeCooldownSeconds int     `mapstructure:"trade_cooldown_seconds"`
	MinSignalConfidence  float64 `mapstructure:"min_signal_confidence"`
	MaxSpreadPct         float64 `mapstructure:"max_spread_pct"`

	// Static validator limits (manual trade submission).
	KillSwitch     bool    `mapstructure:"kill_switch"`
	MaxDrawdownPct float64 `mapstructure:"max_drawdown_pct"`
	MinWalletEUR   float64 `mapstructure:"min_wallet_eur"`
	MinOrderEUR    float64 `mapstructure:"min_order_eur"`
	MaxTradePct    float64 `mapstructure:"max_trade_pct"`
}

// DefaultConfig returns the standard limits.
func DefaultConfig() Config {
	return Config{
		MaxPositionEUR:       2000,
		MaxDailyLossEUR:      200,
		MaxTradesPerDay:      10,
		TradeCooldownSeconds: 300,
		MinSignalConfidence:  0.6,
		MaxSpreadPct:         0.3,
		MaxDrawdownPct:       20,
		MinWalletEUR:         100,
		MinOrderEUR:          10,
		MaxTradePct:          25,
	}
}

// Decision is the outcome of a gate evaluation. A rejection is a normal
// negative outcome, not an error.
type Decision struct {
	Allowed bool
	Reason  string
}

func reject(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Manager gates automated trades. It owns no state: every check reads a
// snapshot from the injected providers, so the same gate runs against
// historical fixtures in tests and live data in production.
type Manager struct {
	cfg     Config
	account AccountRepo
	trades  TradeRepo
	market  MarketData
	now     func() time.Time
}

// NewManager creates a risk gate over the given providers.
func NewManager(cfg Config, account AccountRepo, trades TradeRepo, market MarketData) *Manager {
	return &Manager{
		cfg:     cfg,
		account: account,
		trades:  trades,
		market:  market,
		now:     time.Now,
	}
}

// CanOpenPosition evaluates a proposed trade. Checks run in a fixed
// order and the first failure short-circuits. Provider failures are
// returned as errors, distinct from business-rule rejections.
func (m *Manager) CanOpenPosition(ctx context.Context, symbol string, side core.Direction, sizeEUR, confidence float64) (Decision, error) {
	// 1) Signal confidence
	if confidence < m.cfg.MinSignalConfidence {
		return reject("confidence too low"), nil
	}

	// 2) Max position size
	posEUR, err := m.account.PositionValueEUR(ctx, symbol)
	if err != nil {
		return Decision{}, core.WrapError(core.ErrProviderFailed, fmt.Errorf("position value: %w", err))
	}
	if posEUR+sizeEUR > m.cfg.MaxPositionEUR {
		return reject("position cap exceeded"), nil
	}

	// 3) Max daily loss
	dailyPnL, err := m.trades.TodayRealizedPnLEUR(ctx)
	if err != nil {
		return Decision{}, core.WrapError(core.ErrProviderFailed, fmt.Errorf("daily pnl: %w", err))
	}
	if dailyPnL < -m.cfg.MaxDailyLossEUR {
		return reject("daily loss cap exceeded"), nil
	}

	// 4) Max trades per day
	count, err := m.trades.TradesCountToday(ctx)
	if err != nil {
		return Decision{}, core.WrapError(core.ErrProviderFailed, fmt.Errorf("trade count: %w", err))
	}
	if count >= m.cfg.MaxTradesPerDay {
		return reject("trade-count cap reached"), nil
	}

	// 5) Trade cooldown
	lastAt, exists, err := m.trades.LastTradeTime(ctx, symbol)
	if err != nil {
		return Decision{}, core.WrapError(core.ErrProviderFailed, fmt.Errorf("last trade: %w", err))
	}
	if exists {
		cooldown := time.Duration(m.cfg.TradeCooldownSeconds) * time.Second
		if m.now().Sub(lastAt) < cooldown {
			return reject("cooldown active"), nil
		}
	}

	// 6) Spread check, only when both sides are quoted.
	bid, ask, quoted, err := m.market.OrderbookTop(ctx, symbol)
	if err != nil {
		return Decision{}, core.WrapError(core.ErrProviderFailed, fmt.Errorf("orderbook: %w", err))
	}
	if quoted && bid > 0 {
		spreadPct := (ask - bid) / bid * 100
		if spreadPct > m.cfg.MaxSpreadPct {
			return reject("spread too wide"), nil
		}
	}

	return Decision{Allowed: true, Reason: "OK"}, nil
}

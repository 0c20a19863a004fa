// Package backtest simulates a trading strategy over historical bars.
package backtest

import (
	"context"
	"fmt"

	"github.com/nordvik/pulse/internal/core"
	"github.com/nordvik/pulse/internal/signal"
	"go.uber.org/zap"
)

// Config holds backtest parameters.
type Config struct {
	// InitialCapital is the starting quote-currency balance.
	InitialCapital float64
	// Warmup is the number of leading bars visible only as lookback
	// context. It is raised to the signal source's own minimum when
	// that is larger.
	Warmup int
	// RiskPct is the percentage of capital risked per trade.
	RiskPct float64
}

// DefaultConfig returns the standard backtest parameters.
func DefaultConfig() Config {
	return Config{
		InitialCapital: 10000,
		Warmup:         50,
		RiskPct:        DefaultRiskPct,
	}
}

// Backtester replays historical bars through a signal source, sizes and
// executes the resulting signals, and records an equity curve. A run is
// fully deterministic given identical bars and a deterministic source.
type Backtester struct {
	cfg    Config
	source signal.Source
	sizer  *TradeSizer
	logger *zap.Logger
}

// New creates a Backtester for the given signal source.
func New(cfg Config, source signal.Source, logger *zap.Logger) *Backtester {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.InitialCapital <= 0 {
		cfg.InitialCapital = 10000
	}
	return &Backtester{
		cfg:    cfg,
		source: source,
		sizer:  NewTradeSizer(cfg.RiskPct),
		logger: logger,
	}
}

// Run executes the simulation over bars ordered ascending by time.
// Any signal source failure aborts the whole run; there is no
// partial-result recovery in the historical path.
func (b *Backtester) Run(ctx context.Context, bars []core.Bar, symbol string) (*Result, error) {
	if len(bars) == 0 {
		return nil, core.ErrNoData
	}

	warmup := b.cfg.Warmup
	if mb := b.source.MinBars(); warmup < mb {
		warmup = mb
	}
	if len(bars) <= warmup {
		return nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("have %d bars, need more than %d warmup bars", len(bars), warmup))
	}

	for i, bar := range bars {
		if !bar.IsValid() {
			return nil, core.WrapError(core.ErrMalformedBar,
				fmt.Errorf("bar %d of %d", i, len(bars)))
		}
	}

	pm := NewPositionManager()
	capital := b.cfg.InitialCapital

	equityCurve := make([]float64, 0, len(bars)-warmup)
	points := make([]EquityPoint, 0, len(bars)-warmup)

	for i := warmup; i < len(bars); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Lookback window excludes the decision bar itself.
		sig, err := b.source.Generate(bars[:i])
		if err != nil {
			return nil, core.WrapError(core.ErrModelFailed,
				fmt.Errorf("bar %d: %w", i, err))
		}

		size := b.sizer.ComputeSize(capital, sig)
		price := bars[i].Close

		realized := pm.ExecuteSignal(bars[i].Time, symbol, sig.Direction, size, price)
		capital += realized
		unrealized := pm.UpdateUnrealized(price)
		equity := capital + unrealized

		equityCurve = append(equityCurve, equity)
		points = append(points, EquityPoint{
			Time:          bars[i].Time,
			Price:         price,
			Direction:     sig.Direction,
			Confidence:    sig.Confidence,
			Size:          size,
			Capital:       capital,
			UnrealizedPnL: unrealized,
			RealizedPnL:   realized,
			Equity:        equity,
		})
	}

	trades := pm.Trades()
	b.logger.Debug("backtest complete",
		zap.String("symbol", symbol),
		zap.String("model", b.source.Name()),
		zap.Int("bars", len(bars)),
		zap.Int("trades", len(trades)),
	)

	// No forced liquidation at the end: a still-open position leaves its
	// unrealized PnL in the final equity point.
	return &Result{
		Symbol:      symbol,
		Model:       b.source.Name(),
		Metrics:     CalculateMetrics(equityCurve, trades),
		EquityCurve: equityCurve,
		Trades:      trades,
		Results:     points,
	}, nil
}

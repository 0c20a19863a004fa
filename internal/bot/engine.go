// Package bot runs the periodic paper trading loop.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nordvik/pulse/internal/backtest"
	"github.com/nordvik/pulse/internal/config"
	"github.com/nordvik/pulse/internal/core"
	"github.com/nordvik/pulse/internal/metrics"
	"github.com/nordvik/pulse/internal/paper"
	"github.com/nordvik/pulse/internal/risk"
	"github.com/nordvik/pulse/internal/signal"
	"go.uber.org/zap"
)

// maxActivityLines bounds the in-memory activity feed.
const maxActivityLines = 200

// MarketFeed provides candles and quotes to the engine.
type MarketFeed interface {
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]core.Bar, error)
	FetchQuote(ctx context.Context, symbol string) (*core.Quote, error)
}

// Engine is the live trading orchestrator. Each cycle it fetches the
// candle window, generates a signal, sizes the trade, asks the risk
// gate, and executes against the paper account. A failing cycle is
// logged and skipped; the loop keeps running.
type Engine struct {
	cfg      config.BotConfig
	logger   *zap.Logger
	feed     MarketFeed
	source   signal.Source
	account  *paper.Account
	gate     *risk.Manager
	sizer    *backtest.TradeSizer
	registry *metrics.Registry

	mu       sync.Mutex
	running  bool
	cancel   context.CancelFunc
	activity []string
}

// New creates a new Engine. The metrics registry may be nil.
func New(cfg config.BotConfig, feed MarketFeed, source signal.Source, account *paper.Account, gate *risk.Manager, registry *metrics.Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		feed:     feed,
		source:   source,
		account:  account,
		gate:     gate,
		sizer:    backtest.NewTradeSizer(cfg.RiskPct),
		registry: registry,
	}
}

// Start begins the trading loop and blocks until the context is
// cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("engine already running")
	}
	e.running = true

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	interval := time.Duration(e.cfg.CycleSeconds) * time.Second

	e.logger.Info("trading loop starting",
		zap.String("symbol", e.cfg.Symbol),
		zap.String("model", e.source.Name()),
		zap.Duration("interval", interval),
	)

	// Initial run
	e.runCycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("trading loop shutting down")
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			e.runCycle(ctx)
		}
	}
}

// Stop stops the trading loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// RecentActivity returns a copy of the latest activity lines, oldest
// first.
func (e *Engine) RecentActivity() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.activity))
	copy(out, e.activity)
	return out
}

// runCycle executes one fetch-analyze-trade pass. Errors are logged,
// never propagated: the next tick retries from scratch.
func (e *Engine) runCycle(ctx context.Context) {
	start := time.Now()
	status := "ok"
	defer func() {
		if e.registry != nil {
			e.registry.RecordCycle(status, time.Since(start).Seconds())
			e.registry.SetAccountEquity(e.account.BalanceEUR())
		}
	}()

	if ctx.Err() != nil {
		status = "cancelled"
		return
	}

	bars, err := e.feed.FetchHistory(ctx, e.cfg.Symbol, e.cfg.Interval, e.cfg.HistoryBars)
	if err != nil || len(bars) == 0 {
		status = "fetch_error"
		e.logger.Warn("fetching candles failed", zap.String("symbol", e.cfg.Symbol), zap.Error(err))
		return
	}

	lastClose := bars[len(bars)-1].Close
	e.account.MarkPrice(e.cfg.Symbol, lastClose)

	sig, err := e.source.Generate(bars)
	if err != nil {
		status = "model_error"
		e.logger.Warn("signal generation failed", zap.String("model", e.source.Name()), zap.Error(err))
		return
	}
	if e.registry != nil {
		e.registry.RecordSignal(e.source.Name(), string(sig.Direction))
	}
	e.record("signal %s %s conf=%.2f price=%.2f", e.cfg.Symbol, sig.Direction, sig.Confidence, lastClose)

	if !sig.Actionable() {
		e.logger.Debug("holding", zap.String("symbol", e.cfg.Symbol))
		return
	}

	size := e.sizer.ComputeSize(e.account.BalanceEUR(), sig)
	if size <= 0 {
		return
	}

	decision, err := e.gate.CanOpenPosition(ctx, e.cfg.Symbol, sig.Direction, size, sig.Confidence)
	if err != nil {
		status = "risk_error"
		e.logger.Warn("risk gate failed", zap.Error(err))
		return
	}
	if !decision.Allowed {
		if e.registry != nil {
			e.registry.RecordRiskRejection(decision.Reason)
		}
		e.record("rejected %s %s: %s", e.cfg.Symbol, sig.Direction, decision.Reason)
		e.logger.Info("trade rejected",
			zap.String("symbol", e.cfg.Symbol),
			zap.String("direction", string(sig.Direction)),
			zap.String("reason", decision.Reason),
		)
		return
	}

	trade, err := e.execute(sig.Direction, size, lastClose)
	if err != nil {
		status = "trade_error"
		e.logger.Warn("trade execution failed",
			zap.String("symbol", e.cfg.Symbol),
			zap.String("direction", string(sig.Direction)),
			zap.Error(err),
		)
		return
	}

	if e.registry != nil {
		e.registry.RecordTrade(trade.Symbol, string(trade.Side))
	}
	e.record("trade %s %s %.2f EUR @ %.2f pnl=%.2f", trade.Symbol, trade.Side, trade.AmountEUR, trade.Price, trade.PnL)
	e.logger.Info("trade executed",
		zap.String("id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.String("side", string(trade.Side)),
		zap.Float64("amount_eur", trade.AmountEUR),
		zap.Float64("price", trade.Price),
		zap.Float64("pnl", trade.PnL),
	)
}

func (e *Engine) execute(dir core.Direction, sizeEUR, price float64) (paper.Trade, error) {
	switch dir {
	case core.DirectionBuy:
		return e.account.Buy(e.cfg.Symbol, sizeEUR, price)
	case core.DirectionSell:
		// Cap the sell at what the account actually holds.
		heldEUR := e.account.BaseBalance(e.cfg.Symbol) * price
		if heldEUR < sizeEUR {
			sizeEUR = heldEUR
		}
		if sizeEUR <= 0 {
			return paper.Trade{}, core.WrapError(core.ErrInsufficientBalance,
				fmt.Errorf("sell %s: nothing held", e.cfg.Symbol))
		}
		return e.account.Sell(e.cfg.Symbol, sizeEUR, price)
	default:
		return paper.Trade{}, core.WrapError(core.ErrInvalidAmount,
			fmt.Errorf("execute: direction %s", dir))
	}
}

// record appends a line to the bounded activity feed. Callers must not
// hold the mutex.
func (e *Engine) record(format string, args ...any) {
	line := fmt.Sprintf("%s %s", time.Now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activity = append(e.activity, line)
	if len(e.activity) > maxActivityLines {
		e.activity = e.activity[len(e.activity)-maxActivityLines:]
	}
}

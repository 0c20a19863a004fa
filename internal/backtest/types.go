package backtest

import (
	"time"

	"github.com/nordvik/pulse/internal/core"
)

// PositionSide represents the direction of an open position.
type PositionSide string

const (
	// SideLong is a position that profits when price rises.
	SideLong PositionSide = "LONG"
	// SideShort is a position that profits when price falls.
	SideShort PositionSide = "SHORT"
	// SideNone means no position is open.
	SideNone PositionSide = "NONE"
)

// TradeSide marks what a trade log entry did.
type TradeSide string

const (
	// TradeBuy opened a long position.
	TradeBuy TradeSide = "BUY"
	// TradeSell opened a short position.
	TradeSell TradeSide = "SELL"
	// TradeClose closed an open position and realized its PnL.
	TradeClose TradeSide = "CLOSE"
)

// Trade is one append-only trade log entry. PnL is nonzero only for
// CLOSE entries; opening trades record zero.
type Trade struct {
	Time   time.Time `json:"timestamp"`
	Symbol string    `json:"symbol"`
	Side   TradeSide `json:"side"`
	Size   float64   `json:"size"`
	Price  float64   `json:"price"`
	PnL    float64   `json:"pnl"`
}

// IsClose reports whether this entry realized PnL.
func (t Trade) IsClose() bool {
	return t.Side == TradeClose
}

// Position is the single open position slot. Invariant:
// Side == SideNone exactly when Size == 0.
type Position struct {
	Symbol        string       `json:"symbol"`
	Side          PositionSide `json:"side"`
	Size          float64      `json:"size"`
	EntryPrice    float64      `json:"entry_price"`
	UnrealizedPnL float64      `json:"unrealized_pnl"`
	RealizedPnL   float64      `json:"realized_pnl"`
}

// IsOpen reports whether a position is held.
func (p Position) IsOpen() bool {
	return p.Side != SideNone
}

// EquityPoint is one per-bar snapshot of the simulation state.
// Equity is always Capital + UnrealizedPnL.
type EquityPoint struct {
	Time          time.Time      `json:"timestamp"`
	Price         float64        `json:"price"`
	Direction     core.Direction `json:"signal"`
	Confidence    float64        `json:"confidence"`
	Size          float64        `json:"size"`
	Capital       float64        `json:"capital"`
	UnrealizedPnL float64        `json:"unrealized_pnl"`
	RealizedPnL   float64        `json:"realized_pnl"`
	Equity        float64        `json:"equity"`
}

// Metrics holds aggregate performance figures for a completed run.
type Metrics struct {
	TotalReturn  float64 `json:"total_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`
}

// Result holds the complete backtest output. The final equity is
// mark-to-market: an open position at the last bar is never force
// liquidated, so Metrics can include unrealized PnL.
type Result struct {
	Symbol      string        `json:"symbol"`
	Model       string        `json:"model"`
	Metrics     Metrics       `json:"metrics"`
	EquityCurve []float64     `json:"equity_curve"`
	Trades      []Trade       `json:"trades"`
	Results     []EquityPoint `json:"results"`
}

package backtest

import (
	"time"

	"github.com/nordvik/pulse/internal/core"
)

// PositionManager owns the single open position slot and the trade log
// for one simulation session. It is not safe for concurrent use; each
// backtest run or bot instance constructs its own.
type PositionManager struct {
	position Position
	trades   []Trade
}

// NewPositionManager creates a flat position manager.
func NewPositionManager() *PositionManager {
	return &PositionManager{
		position: Position{Side: SideNone},
	}
}

// Position returns a snapshot of the current position.
func (pm *PositionManager) Position() Position {
	return pm.position
}

// Trades returns a copy of the append-only trade log.
func (pm *PositionManager) Trades() []Trade {
	out := make([]Trade, len(pm.trades))
	copy(out, pm.trades)
	return out
}

// ExecuteSignal applies one sized signal at the given price and returns
// the realized PnL, which is nonzero only when a position was closed.
//
// State transitions:
//   - HOLD or size <= 0: mark to market only.
//   - flat + BUY/SELL: open LONG/SHORT, log an opening trade with pnl=0.
//   - open + same direction: continuation, mark to market only. The new
//     size is intentionally discarded; there is no scale-in/out.
//   - open + opposite direction: close at price (logging a CLOSE trade
//     carrying the realized pnl), then immediately reopen the other way
//     at the new size.
func (pm *PositionManager) ExecuteSignal(ts time.Time, symbol string, direction core.Direction, size, price float64) float64 {
	if direction == core.DirectionHold || size <= 0 {
		pm.UpdateUnrealized(price)
		return 0
	}

	if !pm.position.IsOpen() {
		pm.open(ts, symbol, direction, size, price)
		return 0
	}

	sameSide := (pm.position.Side == SideLong && direction == core.DirectionBuy) ||
		(pm.position.Side == SideShort && direction == core.DirectionSell)
	if sameSide {
		pm.UpdateUnrealized(price)
		return 0
	}

	realized := pm.close(ts, price)
	pm.open(ts, symbol, direction, size, price)
	return realized
}

// UpdateUnrealized recomputes the mark-to-market PnL at the given price
// and returns it. Returns 0 when flat. Called every bar so the equity
// curve reflects the open position even without trade activity.
func (pm *PositionManager) UpdateUnrealized(price float64) float64 {
	if !pm.position.IsOpen() {
		return 0
	}

	switch pm.position.Side {
	case SideLong:
		pm.position.UnrealizedPnL = (price - pm.position.EntryPrice) * pm.position.Size
	case SideShort:
		pm.position.UnrealizedPnL = (pm.position.EntryPrice - price) * pm.position.Size
	}
	return pm.position.UnrealizedPnL
}

func (pm *PositionManager) open(ts time.Time, symbol string, direction core.Direction, size, price float64) {
	side := SideLong
	tradeSide := TradeBuy
	if direction == core.DirectionSell {
		side = SideShort
		tradeSide = TradeSell
	}

	pm.position = Position{
		Symbol:     symbol,
		Side:       side,
		Size:       size,
		EntryPrice: price,
	}
	pm.trades = append(pm.trades, Trade{
		Time:   ts,
		Symbol: symbol,
		Side:   tradeSide,
		Size:   size,
		Price:  price,
	})
}

func (pm *PositionManager) close(ts time.Time, price float64) float64 {
	pos := pm.position
	if !pos.IsOpen() {
		return 0
	}

	var pnl float64
	if pos.Side == SideLong {
		pnl = (price - pos.EntryPrice) * pos.Size
	} else {
		pnl = (pos.EntryPrice - price) * pos.Size
	}

	pm.trades = append(pm.trades, Trade{
		Time:   ts,
		Symbol: pos.Symbol,
		Side:   TradeClose,
		Size:   pos.Size,
		Price:  price,
		PnL:    pnl,
	})
	pm.position = Position{Side: SideNone}
	return pnl
}

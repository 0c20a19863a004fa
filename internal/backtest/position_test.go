package backtest

import (
	"testing"
	"time"

	"github.com/nordvik/pulse/internal/core"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// checkInvariant asserts side == NONE exactly when size == 0.
func checkInvariant(t *testing.T, pm *PositionManager) {
	t.Helper()
	pos := pm.Position()
	if (pos.Side == SideNone) != (pos.Size == 0) {
		t.Fatalf("invariant violated: side=%s size=%v", pos.Side, pos.Size)
	}
}

func TestPositionManager_StartsFlat(t *testing.T) {
	pm := NewPositionManager()
	checkInvariant(t, pm)
	if pm.Position().IsOpen() {
		t.Error("new manager should be flat")
	}
	if len(pm.Trades()) != 0 {
		t.Error("new manager should have no trades")
	}
}

func TestPositionManager_HoldDoesNothing(t *testing.T) {
	pm := NewPositionManager()
	pnl := pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionHold, 100, 50000)
	if pnl != 0 {
		t.Errorf("pnl = %v, want 0", pnl)
	}
	if len(pm.Trades()) != 0 {
		t.Error("HOLD must not record a trade")
	}
	checkInvariant(t, pm)
}

func TestPositionManager_ZeroSizeDoesNothing(t *testing.T) {
	pm := NewPositionManager()
	pnl := pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionBuy, 0, 50000)
	if pnl != 0 {
		t.Errorf("pnl = %v, want 0", pnl)
	}
	if len(pm.Trades()) != 0 {
		t.Error("zero size must not record a trade")
	}
	checkInvariant(t, pm)
}

func TestPositionManager_OpenLong(t *testing.T) {
	pm := NewPositionManager()
	pnl := pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionBuy, 100, 50000)
	if pnl != 0 {
		t.Errorf("pnl = %v, want 0 on open", pnl)
	}

	pos := pm.Position()
	if pos.Side != SideLong || pos.Size != 100 || pos.EntryPrice != 50000 {
		t.Errorf("unexpected position: %+v", pos)
	}
	checkInvariant(t, pm)

	trades := pm.Trades()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Side != TradeBuy || trades[0].PnL != 0 {
		t.Errorf("unexpected opening trade: %+v", trades[0])
	}
}

func TestPositionManager_OpenShort(t *testing.T) {
	pm := NewPositionManager()
	pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionSell, 50, 50000)

	pos := pm.Position()
	if pos.Side != SideShort || pos.Size != 50 {
		t.Errorf("unexpected position: %+v", pos)
	}
	checkInvariant(t, pm)
}

func TestPositionManager_SameDirectionContinuation(t *testing.T) {
	pm := NewPositionManager()
	pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionBuy, 100, 50000)

	// Same-direction signal with a different size is a continuation:
	// no new trade, the original size is kept.
	pnl := pm.ExecuteSignal(testTime.Add(time.Hour), "BTC-EUR", core.DirectionBuy, 250, 51000)
	if pnl != 0 {
		t.Errorf("pnl = %v, want 0", pnl)
	}
	if len(pm.Trades()) != 1 {
		t.Errorf("expected 1 trade, got %d", len(pm.Trades()))
	}
	if pm.Position().Size != 100 {
		t.Errorf("size = %v, want original 100", pm.Position().Size)
	}
	checkInvariant(t, pm)
}

func TestPositionManager_CloseAndReverse_Long(t *testing.T) {
	pm := NewPositionManager()
	pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionBuy, 2, 100)

	pnl := pm.ExecuteSignal(testTime.Add(time.Hour), "BTC-EUR", core.DirectionSell, 3, 110)
	want := (110.0 - 100.0) * 2
	if pnl != want {
		t.Errorf("realized pnl = %v, want %v", pnl, want)
	}

	trades := pm.Trades()
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades (open, close, reopen), got %d", len(trades))
	}
	if trades[1].Side != TradeClose || trades[1].PnL != want {
		t.Errorf("unexpected close trade: %+v", trades[1])
	}
	if trades[2].Side != TradeSell || trades[2].PnL != 0 {
		t.Errorf("unexpected reopen trade: %+v", trades[2])
	}

	pos := pm.Position()
	if pos.Side != SideShort || pos.Size != 3 || pos.EntryPrice != 110 {
		t.Errorf("unexpected reversed position: %+v", pos)
	}
	checkInvariant(t, pm)
}

func TestPositionManager_CloseAndReverse_Short(t *testing.T) {
	pm := NewPositionManager()
	pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionSell, 2, 100)

	pnl := pm.ExecuteSignal(testTime.Add(time.Hour), "BTC-EUR", core.DirectionBuy, 2, 90)
	want := (100.0 - 90.0) * 2
	if pnl != want {
		t.Errorf("realized pnl = %v, want %v", pnl, want)
	}
	if pm.Position().Side != SideLong {
		t.Errorf("side = %v, want LONG after reversal", pm.Position().Side)
	}
	checkInvariant(t, pm)
}

func TestPositionManager_CloseAtEntryPriceIsZeroPnL(t *testing.T) {
	pm := NewPositionManager()
	pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionBuy, 5, 100)

	pnl := pm.ExecuteSignal(testTime.Add(time.Hour), "BTC-EUR", core.DirectionSell, 5, 100)
	if pnl != 0 {
		t.Errorf("pnl = %v, want exactly 0 with no fees", pnl)
	}
}

func TestPositionManager_UpdateUnrealized(t *testing.T) {
	pm := NewPositionManager()

	if got := pm.UpdateUnrealized(100); got != 0 {
		t.Errorf("flat unrealized = %v, want 0", got)
	}

	pm.ExecuteSignal(testTime, "BTC-EUR", core.DirectionBuy, 2, 100)
	if got := pm.UpdateUnrealized(105); got != 10 {
		t.Errorf("long unrealized = %v, want 10", got)
	}

	pm2 := NewPositionManager()
	pm2.ExecuteSignal(testTime, "BTC-EUR", core.DirectionSell, 2, 100)
	if got := pm2.UpdateUnrealized(95); got != 10 {
		t.Errorf("short unrealized = %v, want 10", got)
	}
}

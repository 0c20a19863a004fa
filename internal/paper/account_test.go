package paper

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/nordvik/pulse/internal/core"
)

func TestNewAccount_DefaultBalance(t *testing.T) {
	a := NewAccount(0)
	if a.BalanceEUR() != DefaultInitialEUR {
		t.Errorf("BalanceEUR() = %v, want %v", a.BalanceEUR(), DefaultInitialEUR)
	}
}

func TestBuy(t *testing.T) {
	a := NewAccount(10000)

	trade, err := a.Buy("BTC-EUR", 1000, 50000)
	if err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	if trade.ID == "" {
		t.Error("trade must carry an id")
	}
	if trade.Side != core.DirectionBuy {
		t.Errorf("Side = %v, want BUY", trade.Side)
	}
	if a.BalanceEUR() != 9000 {
		t.Errorf("BalanceEUR() = %v, want 9000", a.BalanceEUR())
	}
	want := 1000.0 / 50000.0
	if math.Abs(a.BaseBalance("BTC-EUR")-want) > 1e-12 {
		t.Errorf("BaseBalance() = %v, want %v", a.BaseBalance("BTC-EUR"), want)
	}
}

func TestBuy_InsufficientBalance(t *testing.T) {
	a := NewAccount(100)
	_, err := a.Buy("BTC-EUR", 500, 50000)
	if !errors.Is(err, core.ErrInsufficientBalance) {
		t.Errorf("error = %v, want ErrInsufficientBalance", err)
	}
	if a.BalanceEUR() != 100 {
		t.Errorf("rejected buy must not move balance, got %v", a.BalanceEUR())
	}
}

func TestBuy_InvalidAmount(t *testing.T) {
	a := NewAccount(10000)
	if _, err := a.Buy("BTC-EUR", 0, 50000); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero amount: error = %v, want ErrInvalidAmount", err)
	}
	if _, err := a.Buy("BTC-EUR", -10, 50000); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative amount: error = %v, want ErrInvalidAmount", err)
	}
	if _, err := a.Buy("BTC-EUR", 10, 0); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero price: error = %v, want ErrInvalidAmount", err)
	}
}

func TestSell_RealizesPnLAgainstAverageCost(t *testing.T) {
	a := NewAccount(10000)

	// Two lots: 0.02 BTC @ 50000 and 0.02 BTC @ 60000, avg cost 55000.
	if _, err := a.Buy("BTC-EUR", 1000, 50000); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Buy("BTC-EUR", 1200, 60000); err != nil {
		t.Fatal(err)
	}

	// Sell 0.01 BTC at 70000: pnl = (70000 - 55000) * 0.01 = 150.
	trade, err := a.Sell("BTC-EUR", 700, 70000)
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if math.Abs(trade.PnL-150) > 1e-9 {
		t.Errorf("PnL = %v, want 150", trade.PnL)
	}
}

func TestSell_InsufficientHolding(t *testing.T) {
	a := NewAccount(10000)
	if _, err := a.Buy("BTC-EUR", 100, 50000); err != nil {
		t.Fatal(err)
	}

	_, err := a.Sell("BTC-EUR", 5000, 50000)
	if !errors.Is(err, core.ErrInsufficientBalance) {
		t.Errorf("error = %v, want ErrInsufficientBalance", err)
	}
}

func TestRoundTripConservesValueAtFlatPrice(t *testing.T) {
	a := NewAccount(10000)
	if _, err := a.Buy("BTC-EUR", 1000, 50000); err != nil {
		t.Fatal(err)
	}
	trade, err := a.Sell("BTC-EUR", 1000, 50000)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(a.BalanceEUR()-10000) > 1e-9 {
		t.Errorf("BalanceEUR() = %v, want 10000 after flat round trip", a.BalanceEUR())
	}
	if math.Abs(trade.PnL) > 1e-9 {
		t.Errorf("PnL = %v, want 0 at unchanged price", trade.PnL)
	}
	if a.BaseBalance("BTC-EUR") != 0 {
		t.Errorf("BaseBalance() = %v, want 0", a.BaseBalance("BTC-EUR"))
	}
}

func TestPositionValueEUR_UsesMarkPrice(t *testing.T) {
	a := NewAccount(10000)
	if _, err := a.Buy("BTC-EUR", 1000, 50000); err != nil {
		t.Fatal(err)
	}
	a.MarkPrice("BTC-EUR", 55000)

	v, err := a.PositionValueEUR(context.Background(), "BTC-EUR")
	if err != nil {
		t.Fatalf("PositionValueEUR() error = %v", err)
	}
	want := (1000.0 / 50000.0) * 55000
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("PositionValueEUR() = %v, want %v", v, want)
	}
}

func TestPositionValueEUR_FlatIsZero(t *testing.T) {
	a := NewAccount(10000)
	v, err := a.PositionValueEUR(context.Background(), "BTC-EUR")
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("PositionValueEUR() = %v, want 0 for empty account", v)
	}
}

func TestTradeRepoViews(t *testing.T) {
	a := NewAccount(10000)
	a.now = func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	}

	if _, err := a.Buy("BTC-EUR", 1000, 50000); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Sell("BTC-EUR", 500, 55000); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	count, err := a.TradesCountToday(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("TradesCountToday() = %d, want 2", count)
	}

	pnl, err := a.TodayRealizedPnLEUR(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if pnl <= 0 {
		t.Errorf("TodayRealizedPnLEUR() = %v, want > 0 after profitable sell", pnl)
	}

	last, ok, err := a.LastTradeTime(ctx, "BTC-EUR")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || last.IsZero() {
		t.Error("LastTradeTime() should report the sell")
	}

	_, ok, err = a.LastTradeTime(ctx, "ETH-EUR")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("LastTradeTime() must report ok=false for untraded symbol")
	}
}

func TestHistoryBounded(t *testing.T) {
	a := NewAccount(1e9)
	for i := 0; i < maxHistory+50; i++ {
		if _, err := a.Buy("BTC-EUR", 1, 100); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(a.Trades()); got != maxHistory {
		t.Errorf("history length = %d, want %d", got, maxHistory)
	}
}

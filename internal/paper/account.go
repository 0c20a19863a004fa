// Package paper simulates an exchange account for dry-run trading.
package paper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nordvik/pulse/internal/core"
)

// DefaultInitialEUR is the starting quote balance of a fresh account.
const DefaultInitialEUR = 10000

// maxHistory bounds the in-memory trade log.
const maxHistory = 500

// Trade is a filled paper order.
type Trade struct {
	ID         string         `json:"id"`
	Time       time.Time      `json:"time"`
	Symbol     string         `json:"symbol"`
	Side       core.Direction `json:"side"`
	AmountEUR  float64        `json:"amount_eur"`
	Price      float64        `json:"price"`
	BaseAmount float64        `json:"base_amount"`
	PnL        float64        `json:"pnl"`
}

// holding tracks a base-asset balance and its average cost basis.
type holding struct {
	amount   float64
	avgPrice float64
	lastMark float64
}

// Account is an in-memory paper trading account. Balances live in the
// quote currency (EUR) plus one base holding per symbol. Realized pnl
// uses the average cost basis of the holding. Safe for concurrent use.
type Account struct {
	mu       sync.Mutex
	eur      float64
	holdings map[string]*holding
	trades   []Trade
	now      func() time.Time
}

// NewAccount creates an account funded with the given quote balance.
// A non-positive balance falls back to DefaultInitialEUR.
func NewAccount(initialEUR float64) *Account {
	if initialEUR <= 0 {
		initialEUR = DefaultInitialEUR
	}
	return &Account{
		eur:      initialEUR,
		holdings: make(map[string]*holding),
		now:      time.Now,
	}
}

// BalanceEUR returns the free quote balance.
func (a *Account) BalanceEUR() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.eur
}

// BaseBalance returns the held base amount for the symbol.
func (a *Account) BaseBalance(symbol string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if h, ok := a.holdings[symbol]; ok {
		return h.amount
	}
	return 0
}

// MarkPrice records the latest observed price for the symbol so that
// position valuation reflects the market rather than the last fill.
func (a *Account) MarkPrice(symbol string, price float64) {
	if price <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hold(symbol).lastMark = price
}

// Buy converts amountEUR of quote balance into the base asset at the
// given price.
func (a *Account) Buy(symbol string, amountEUR, price float64) (Trade, error) {
	if amountEUR <= 0 || price <= 0 {
		return Trade{}, core.WrapError(core.ErrInvalidAmount,
			fmt.Errorf("buy %s: amount=%v price=%v", symbol, amountEUR, price))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if amountEUR > a.eur {
		return Trade{}, core.WrapError(core.ErrInsufficientBalance,
			fmt.Errorf("buy %s: need %.2f EUR, have %.2f", symbol, amountEUR, a.eur))
	}

	baseAmount := amountEUR / price
	h := a.hold(symbol)

	// Blend the new lot into the average cost basis.
	total := h.amount + baseAmount
	h.avgPrice = (h.amount*h.avgPrice + baseAmount*price) / total
	h.amount = total
	h.lastMark = price
	a.eur -= amountEUR

	trade := Trade{
		ID:         uuid.NewString(),
		Time:       a.now(),
		Symbol:     symbol,
		Side:       core.DirectionBuy,
		AmountEUR:  amountEUR,
		Price:      price,
		BaseAmount: baseAmount,
	}
	a.record(trade)
	return trade, nil
}

// Sell converts amountEUR worth of the base asset back into quote
// balance at the given price, realizing pnl against the average cost.
func (a *Account) Sell(symbol string, amountEUR, price float64) (Trade, error) {
	if amountEUR <= 0 || price <= 0 {
		return Trade{}, core.WrapError(core.ErrInvalidAmount,
			fmt.Errorf("sell %s: amount=%v price=%v", symbol, amountEUR, price))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	baseAmount := amountEUR / price
	h := a.hold(symbol)
	if baseAmount > h.amount {
		return Trade{}, core.WrapError(core.ErrInsufficientBalance,
			fmt.Errorf("sell %s: need %.8f, have %.8f", symbol, baseAmount, h.amount))
	}

	pnl := (price - h.avgPrice) * baseAmount
	h.amount -= baseAmount
	h.lastMark = price
	if h.amount < 1e-12 {
		h.amount = 0
		h.avgPrice = 0
	}
	a.eur += amountEUR

	trade := Trade{
		ID:         uuid.NewString(),
		Time:       a.now(),
		Symbol:     symbol,
		Side:       core.DirectionSell,
		AmountEUR:  amountEUR,
		Price:      price,
		BaseAmount: baseAmount,
		PnL:        pnl,
	}
	a.record(trade)
	return trade, nil
}

// Trades returns a copy of the trade log, oldest first.
func (a *Account) Trades() []Trade {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Trade, len(a.trades))
	copy(out, a.trades)
	return out
}

// PositionValueEUR reports the holding valued at the latest marked
// price. Implements the risk gate's account provider.
func (a *Account) PositionValueEUR(ctx context.Context, symbol string) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, ok := a.holdings[symbol]
	if !ok || h.amount == 0 {
		return 0, nil
	}
	mark := h.lastMark
	if mark <= 0 {
		mark = h.avgPrice
	}
	return h.amount * mark, nil
}

// TodayRealizedPnLEUR sums realized pnl over trades executed today (UTC).
func (a *Account) TodayRealizedPnLEUR(ctx context.Context) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var sum float64
	today := a.now().UTC().Truncate(24 * time.Hour)
	for _, t := range a.trades {
		if !t.Time.UTC().Truncate(24 * time.Hour).Equal(today) {
			continue
		}
		sum += t.PnL
	}
	return sum, nil
}

// TradesCountToday counts trades executed today (UTC).
func (a *Account) TradesCountToday(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	count := 0
	today := a.now().UTC().Truncate(24 * time.Hour)
	for _, t := range a.trades {
		if t.Time.UTC().Truncate(24 * time.Hour).Equal(today) {
			count++
		}
	}
	return count, nil
}

// LastTradeTime returns the time of the most recent trade for the
// symbol; ok is false when the symbol has never traded.
func (a *Account) LastTradeTime(ctx context.Context, symbol string) (time.Time, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.trades) - 1; i >= 0; i-- {
		if a.trades[i].Symbol == symbol {
			return a.trades[i].Time, true, nil
		}
	}
	return time.Time{}, false, nil
}

// hold returns the holding for the symbol, creating it when absent.
// Callers must hold the mutex.
func (a *Account) hold(symbol string) *holding {
	h, ok := a.holdings[symbol]
	if !ok {
		h = &holding{}
		a.holdings[symbol] = h
	}
	return h
}

// record appends a trade, dropping the oldest entry past maxHistory.
// Callers must hold the mutex.
func (a *Account) record(t Trade) {
	a.trades = append(a.trades, t)
	if len(a.trades) > maxHistory {
		a.trades = a.trades[len(a.trades)-maxHistory:]
	}
}

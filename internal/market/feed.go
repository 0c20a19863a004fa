package market

import (
	"context"
	"fmt"

	"github.com/nordvik/pulse/internal/core"
	"github.com/nordvik/pulse/internal/market/binance"
	"github.com/nordvik/pulse/internal/market/coinbase"
)

// Feed aggregates exchange providers with automatic fallback: each call
// tries providers in order and returns the first success.
type Feed struct {
	providers []Provider
}

// New creates a Feed with the default provider order, Coinbase first.
func New() *Feed {
	return &Feed{
		providers: []Provider{
			coinbase.New(),
			binance.New(),
		},
	}
}

// NewWithProviders creates a Feed over a custom provider list.
func NewWithProviders(providers ...Provider) *Feed {
	return &Feed{providers: providers}
}

// FetchQuote fetches a real-time quote with automatic fallback.
func (f *Feed) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	var lastErr error
	for _, p := range f.providers {
		quote, err := p.FetchQuote(ctx, symbol)
		if err == nil && quote.IsValid() {
			return quote, nil
		}
		if err == nil {
			err = fmt.Errorf("%s returned empty quote", p.Name())
		}
		lastErr = err
	}
	return nil, core.WrapError(core.ErrProviderFailed,
		fmt.Errorf("all providers failed for %s: %w", symbol, lastErr))
}

// FetchHistory fetches historical candles with automatic fallback.
func (f *Feed) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]core.Bar, error) {
	var lastErr error
	for _, p := range f.providers {
		bars, err := p.FetchHistory(ctx, symbol, interval, limit)
		if err == nil && len(bars) > 0 {
			return bars, nil
		}
		if err == nil {
			err = fmt.Errorf("%s returned no candles", p.Name())
		}
		lastErr = err
	}
	return nil, core.WrapError(core.ErrProviderFailed,
		fmt.Errorf("all providers failed for %s: %w", symbol, lastErr))
}

// OrderbookTop returns the best bid and ask from the first provider
// with a quoted book. Implements the risk gate's market data provider.
func (f *Feed) OrderbookTop(ctx context.Context, symbol string) (bid, ask float64, ok bool, err error) {
	quote, err := f.FetchQuote(ctx, symbol)
	if err != nil {
		return 0, 0, false, err
	}
	if quote.Bid <= 0 || quote.Ask <= 0 {
		return 0, 0, false, nil
	}
	return quote.Bid, quote.Ask, true, nil
}

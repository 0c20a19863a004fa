// Package market fetches candles and quotes from exchange REST APIs.
package market

import (
	"context"

	"github.com/nordvik/pulse/internal/core"
)

// Provider defines the interface for exchange market data sources.
type Provider interface {
	// Name returns the provider identifier (e.g., "coinbase", "binance").
	Name() string

	// FetchQuote fetches a real-time quote for a product symbol
	// (e.g., "BTC-EUR").
	FetchQuote(ctx context.Context, symbol string) (*core.Quote, error)

	// FetchHistory fetches up to limit most recent OHLCV candles,
	// ordered ascending by time.
	// interval: "1m", "5m", "15m", "1h", "4h", "1d"
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]core.Bar, error)
}

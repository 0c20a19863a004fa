package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/nordvik/pulse/internal/core"
)

const (
	baseURL = "https://api.exchange.coinbase.com"
)

// Coinbase implements the market Provider interface for the Coinbase
// Exchange REST API.
type Coinbase struct {
	client  *http.Client
	baseURL string
}

// New creates a new Coinbase provider
func New() *Coinbase {
	return &Coinbase{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewWithBaseURL creates a Coinbase provider with custom base URL (for testing)
func NewWithBaseURL(url string) *Coinbase {
	c := New()
	c.baseURL = url
	return c
}

func (c *Coinbase) Name() string {
	return "coinbase"
}

// FetchQuote fetches the product ticker from Coinbase
func (c *Coinbase) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	url := fmt.Sprintf("%s/products/%s/ticker", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result ticker
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	price, _ := strconv.ParseFloat(result.Price, 64)
	bid, _ := strconv.ParseFloat(result.Bid, 64)
	ask, _ := strconv.ParseFloat(result.Ask, 64)

	ts, err := time.Parse(time.RFC3339, result.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	return &core.Quote{
		Symbol: symbol,
		Price:  price,
		Bid:    bid,
		Ask:    ask,
		Time:   ts,
		Source: "coinbase",
	}, nil
}

// FetchHistory fetches historical OHLCV candles from Coinbase.
// Coinbase returns candles newest first as [time, low, high, open,
// close, volume]; the result is reordered ascending.
func (c *Coinbase) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]core.Bar, error) {
	url := fmt.Sprintf("%s/products/%s/candles?granularity=%d",
		c.baseURL, symbol, c.toGranularity(interval))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var candles [][]float64
	if err := json.NewDecoder(resp.Body).Decode(&candles); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	bars := make([]core.Bar, 0, len(candles))
	for _, k := range candles {
		if len(k) < 6 {
			continue
		}
		bars = append(bars, core.Bar{
			Symbol:   symbol,
			Interval: interval,
			Low:      k[1],
			High:     k[2],
			Open:     k[3],
			Close:    k[4],
			Volume:   k[5],
			Time:     time.Unix(int64(k[0]), 0).UTC(),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}

	return bars, nil
}

func (c *Coinbase) toGranularity(interval string) int {
	switch interval {
	case "1m":
		return 60
	case "5m":
		return 300
	case "15m":
		return 900
	case "1h":
		return 3600
	case "4h", "6h":
		return 21600
	case "1d":
		return 86400
	default:
		return 3600
	}
}

// Coinbase API response types
type ticker struct {
	TradeID int64  `json:"trade_id"`
	Price   string `json:"price"`
	Size    string `json:"size"`
	Bid     string `json:"bid"`
	Ask     string `json:"ask"`
	Volume  string `json:"volume"`
	Time    string `json:"time"`
}

// Package core holds the shared data model for the trading core.
package core

import "time"

// Direction represents a directional trading signal.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
	DirectionHold Direction = "HOLD"
)

// Bar represents one OHLCV candlestick sample.
// Sequences of bars are ordered ascending by time with no duplicates.
type Bar struct {
	Symbol   string
	Interval string // "1m", "5m", "1h", "1d"
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Time     time.Time
}

// IsValid checks if the bar has required fields.
func (b Bar) IsValid() bool {
	return b.Close > 0 && !b.Time.IsZero()
}

// Signal represents a directional trading signal from a model.
type Signal struct {
	Symbol      string
	Direction   Direction
	Confidence  float64 // in [0, 1]
	Price       float64 // price at signal generation
	Reason      string
	Model       string
	GeneratedAt time.Time
}

// Actionable reports whether the signal asks for a trade.
func (s Signal) Actionable() bool {
	return s.Direction == DirectionBuy || s.Direction == DirectionSell
}

// Quote represents a real-time price snapshot.
type Quote struct {
	Symbol string
	Price  float64
	Bid    float64
	Ask    float64
	Time   time.Time
	Source string
}

// IsValid checks if the quote has required fields.
func (q Quote) IsValid() bool {
	return q.Symbol != "" && q.Price > 0
}

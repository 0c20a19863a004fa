package signal

import (
	"github.com/nordvik/pulse/internal/core"
	"github.com/nordvik/pulse/internal/indicator"
)

// Feature lookback periods. MaxLookback bounds the warmup a caller must
// provide before the first signal can be generated.
const (
	rsiPeriod        = 14
	smaPeriod        = 10
	bollingerPeriod  = 20
	momentumPeriod   = 5
	volatilityPeriod = 5

	// MaxLookback is the longest indicator history any built-in model
	// requires, including the slow MACD span.
	MaxLookback = 50
)

// Features holds model-ready features derived from a bar window.
type Features struct {
	Price      float64
	Return     float64
	Volatility float64
	SMA        float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	BBUpper    float64
	BBLower    float64
	BBMid      float64
	Momentum   float64
}

// ComputeFeatures derives features from the window's closing prices.
// The window must be ordered ascending by time.
func ComputeFeatures(window []core.Bar) Features {
	closes := make([]float64, len(window))
	for i, b := range window {
		closes[i] = b.Close
	}

	var f Features
	if len(closes) == 0 {
		return f
	}

	f.Price = closes[len(closes)-1]
	if len(closes) >= 2 && closes[len(closes)-2] != 0 {
		f.Return = (closes[len(closes)-1] - closes[len(closes)-2]) / closes[len(closes)-2]
	}
	f.Volatility = indicator.Volatility(closes, volatilityPeriod)
	if sma := indicator.SMA(closes, smaPeriod); len(sma) > 0 {
		f.SMA = sma[len(sma)-1]
	}
	f.RSI = indicator.RSI(closes, rsiPeriod)
	f.MACD, f.MACDSignal = indicator.MACD(closes)
	f.BBUpper, f.BBLower, f.BBMid = indicator.Bollinger(closes, bollingerPeriod, 2.0)
	f.Momentum = indicator.Momentum(closes, momentumPeriod)

	return f
}

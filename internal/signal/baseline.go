package signal

import (
	"github.com/nordvik/pulse/internal/core"
)

// Baseline is the rule-based signal model: RSI extremes first, then MACD
// crossover, then price relative to the short moving average. Confidence
// falls with each weaker rule.
type Baseline struct{}

// NewBaseline creates the baseline rule model.
func NewBaseline() *Baseline {
	return &Baseline{}
}

func (b *Baseline) Name() string { return "baseline" }

func (b *Baseline) MinBars() int { return MaxLookback }

// Generate produces one signal from the window.
func (b *Baseline) Generate(window []core.Bar) (core.Signal, error) {
	if len(window) < b.MinBars() {
		return core.Signal{}, core.ErrInsufficientData
	}

	f := ComputeFeatures(window)
	last := window[len(window)-1]

	sig := core.Signal{
		Symbol:      last.Symbol,
		Price:       f.Price,
		Model:       b.Name(),
		GeneratedAt: last.Time,
	}

	switch {
	case f.RSI > 0 && f.RSI < 30:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionBuy, 0.70, "RSI oversold"
	case f.RSI > 70:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionSell, 0.70, "RSI overbought"
	case f.MACD > f.MACDSignal:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionBuy, 0.60, "MACD above signal line"
	case f.MACD < f.MACDSignal:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionSell, 0.60, "MACD below signal line"
	case f.Price > f.SMA:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionBuy, 0.55, "price above SMA"
	case f.Price < f.SMA:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionSell, 0.55, "price below SMA"
	default:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionHold, 0.50, "no edge"
	}

	return sig, nil
}

// Momentum is a simple trend-following model: it follows the n-step
// percentage change when it exceeds a small threshold.
type Momentum struct {
	threshold float64
}

// NewMomentum creates the momentum model with the default threshold.
func NewMomentum() *Momentum {
	return &Momentum{threshold: 0.005}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) MinBars() int { return MaxLookback }

// Generate produces one signal from the window.
func (m *Momentum) Generate(window []core.Bar) (core.Signal, error) {
	if len(window) < m.MinBars() {
		return core.Signal{}, core.ErrInsufficientData
	}

	f := ComputeFeatures(window)
	last := window[len(window)-1]

	sig := core.Signal{
		Symbol:      last.Symbol,
		Price:       f.Price,
		Model:       m.Name(),
		GeneratedAt: last.Time,
	}

	switch {
	case f.Momentum > m.threshold:
		sig.Direction, sig.Reason = core.DirectionBuy, "positive momentum"
		sig.Confidence = clampConfidence(0.5 + f.Momentum*10)
	case f.Momentum < -m.threshold:
		sig.Direction, sig.Reason = core.DirectionSell, "negative momentum"
		sig.Confidence = clampConfidence(0.5 - f.Momentum*10)
	default:
		sig.Direction, sig.Confidence, sig.Reason = core.DirectionHold, 0.50, "momentum flat"
	}

	return sig, nil
}

func clampConfidence(c float64) float64 {
	if c > 1 {
		return 1
	}
	if c < 0 {
		return 0
	}
	return c
}

package backtest

import (
	"math"

	"github.com/nordvik/pulse/internal/core"
)

// DefaultRiskPct is the percentage of capital risked per trade.
const DefaultRiskPct = 2.0

// TradeSizer converts available capital and signal confidence into a
// trade size in quote currency.
type TradeSizer struct {
	riskPct float64
}

// NewTradeSizer creates a sizer risking riskPct percent of capital per
// trade. Non-positive values fall back to DefaultRiskPct.
func NewTradeSizer(riskPct float64) *TradeSizer {
	if riskPct <= 0 {
		riskPct = DefaultRiskPct
	}
	return &TradeSizer{riskPct: riskPct}
}

// ComputeSize returns capital * riskPct/100 * confidence, rounded to
// cents. HOLD signals size to zero. The result never exceeds capital
// for confidence <= 1 and riskPct <= 100.
func (s *TradeSizer) ComputeSize(capital float64, sig core.Signal) float64 {
	if sig.Direction == core.DirectionHold {
		return 0
	}

	size := capital * (s.riskPct / 100) * sig.Confidence
	if size < 0 {
		return 0
	}
	return math.Round(size*100) / 100
}

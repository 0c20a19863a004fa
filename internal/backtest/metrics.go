package backtest

import (
	"math"
)

// CalculateMetrics computes all performance figures from the completed
// equity curve and trade log.
func CalculateMetrics(equity []float64, trades []Trade) Metrics {
	return Metrics{
		TotalReturn:  TotalReturn(equity),
		MaxDrawdown:  MaxDrawdown(equity),
		SharpeRatio:  SharpeRatio(equityReturns(equity)),
		WinRate:      WinRate(trades),
		ProfitFactor: ProfitFactor(trades),
	}
}

// TotalReturn is equity[last]/equity[first] - 1, or 0 with fewer than
// two points.
func TotalReturn(equity []float64) float64 {
	if len(equity) < 2 || equity[0] == 0 {
		return 0
	}
	return equity[len(equity)-1]/equity[0] - 1
}

// MaxDrawdown is the most negative relative decline from the running
// equity peak. Always <= 0; exactly 0 for a non-decreasing curve.
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	var maxDD float64
	peak := equity[0]
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if peak != 0 {
			dd := (e - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio is sqrt(252) * mean(returns) / std(returns), with a zero
// risk-free rate. Returns 0 when the deviation is zero.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(returns)-1))
	if std == 0 {
		return 0
	}

	return math.Sqrt(252) * mean / std
}

// WinRate is the fraction of CLOSE trades with positive pnl, in [0,1].
// Returns 0 when no position was ever closed.
func WinRate(trades []Trade) float64 {
	var closed, wins int
	for _, t := range trades {
		if !t.IsClose() {
			continue
		}
		closed++
		if t.PnL > 0 {
			wins++
		}
	}
	if closed == 0 {
		return 0
	}
	return float64(wins) / float64(closed)
}

// ProfitFactor is gross gains over gross losses across CLOSE trades.
// +Inf when there are gains and no losses, 0 when nothing was realized.
func ProfitFactor(trades []Trade) float64 {
	var gains, losses float64
	var closed int
	for _, t := range trades {
		if !t.IsClose() {
			continue
		}
		closed++
		if t.PnL > 0 {
			gains += t.PnL
		} else if t.PnL < 0 {
			losses += -t.PnL
		}
	}
	if closed == 0 {
		return 0
	}
	if losses == 0 {
		if gains > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return gains / losses
}

// equityReturns is the one-step percentage change series with a leading
// zero, mirroring how the equity curve is differenced for the Sharpe
// calculation.
func equityReturns(equity []float64) []float64 {
	if len(equity) == 0 {
		return nil
	}
	returns := make([]float64, len(equity))
	for i := 1; i < len(equity); i++ {
		if equity[i-1] != 0 {
			returns[i] = (equity[i] - equity[i-1]) / equity[i-1]
		}
	}
	return returns
}

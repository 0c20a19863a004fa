// Package indicator provides rolling technical indicators over price series.
package indicator

import "math"

// SMA calculates Simple Moving Average
// Returns slice of length: len(prices) - period + 1
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)

	// Calculate first SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}

	return result
}

// EMA calculates Exponential Moving Average seeded from the first price.
// Returns a slice the same length as prices, matching the span-based
// smoothing alpha = 2/(period+1).
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) == 0 {
		return []float64{}
	}

	result := make([]float64, len(prices))
	multiplier := 2.0 / float64(period+1)

	ema := prices[0]
	result[0] = ema
	for i := 1; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result[i] = ema
	}

	return result
}

// RSI calculates the latest Relative Strength Index over the given period.
// Returns 0 when there is not enough history or no losses occurred.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 0
	}

	// Rolling mean of gains and losses over the last period deltas.
	var avgGain, avgLoss float64
	for i := len(prices) - period; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 0
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD calculates the latest MACD line and signal line values
// using the standard 12/26/9 spans.
func MACD(prices []float64) (macd, signal float64) {
	if len(prices) == 0 {
		return 0, 0
	}

	ema12 := EMA(prices, 12)
	ema26 := EMA(prices, 26)

	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = ema12[i] - ema26[i]
	}
	sig := EMA(line, 9)

	return line[len(line)-1], sig[len(sig)-1]
}

// Bollinger calculates the latest Bollinger band values for the given
// period and standard deviation multiplier. Returns zeros when there is
// not enough history.
func Bollinger(prices []float64, period int, numStd float64) (upper, lower, mid float64) {
	if period <= 0 || len(prices) < period {
		return 0, 0, 0
	}

	window := prices[len(prices)-period:]

	var sum float64
	for _, p := range window {
		sum += p
	}
	mid = sum / float64(period)

	var variance float64
	for _, p := range window {
		variance += (p - mid) * (p - mid)
	}
	std := math.Sqrt(variance / float64(period-1))

	return mid + numStd*std, mid - numStd*std, mid
}

// Momentum calculates the latest n-step percentage change.
func Momentum(prices []float64, n int) float64 {
	if n <= 0 || len(prices) < n+1 {
		return 0
	}
	prev := prices[len(prices)-1-n]
	if prev == 0 {
		return 0
	}
	return (prices[len(prices)-1] - prev) / prev
}

// Volatility calculates the sample standard deviation of one-step
// returns over the last period steps.
func Volatility(prices []float64, period int) float64 {
	if period < 2 || len(prices) < period+1 {
		return 0
	}

	returns := make([]float64, 0, period)
	for i := len(prices) - period; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	return math.Sqrt(variance / float64(len(returns)-1))
}

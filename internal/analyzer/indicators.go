package analyzer

import "errors"

// CalculateRSI computes the Relative Strength Index over the last `period`
// price changes. Requires at least period+1 prices.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 0, errors.New("not enough data for RSI calculation")
	}

	var avgGain, avgLoss float64
	for i := len(prices) - period; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100, nil
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), nil
}

// MovingAverage returns the trailing mean of the prices with the given
// window, one value per input point. The window is clamped to the series
// length, so short series still get an overlay.
func MovingAverage(prices []float64, window int) []float64 {
	if len(prices) == 0 {
		return nil
	}
	if window <= 0 || window > len(prices) {
		window = len(prices)
	}
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		n := i + 1
		if n > window {
			sum -= prices[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

package analyzer

import (
	"errors"
	"math"

	"MetalWatch/internal/model"
)

// ErrEmptySeries is returned when a series has no points to analyze.
var ErrEmptySeries = errors.New("price series is empty")

// Analyze computes descriptive statistics, the five-bucket trend label and the
// alert decision for a non-empty price series.
func Analyze(series *model.PriceSeries, cfg model.AlertConfig) (*model.AnalysisResult, error) {
	if series == nil || len(series.Points) == 0 {
		return nil, ErrEmptySeries
	}

	prices := series.Prices()
	first := prices[0]
	current := prices[len(prices)-1]

	min, max := prices[0], prices[0]
	sum := 0.0
	for _, p := range prices {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
		sum += p
	}
	mean := sum / float64(len(prices))

	change := current - first
	pct := 0.0
	if first != 0 {
		pct = change / first * 100
	}

	position := 0.0
	if max != min {
		position = (current - min) / (max - min)
	}

	result := &model.AnalysisResult{
		Current:        current,
		Min:            min,
		Max:            max,
		Mean:           mean,
		Change:         change,
		PercentChange:  pct,
		Volatility:     stdDev(prices, mean),
		PricePosition:  position,
		Trend:          Trend(pct),
		AlertDirection: model.AlertNone,
	}

	result.AlertTriggered, result.AlertDirection = CheckAlert(pct, cfg)
	return result, nil
}

// Trend maps a percent change onto one of five fixed bands. Equality to ±2
// lands in the "Strong" bucket, equality to ±0.5 in the named non-stable one.
func Trend(pct float64) model.TrendLabel {
	switch {
	case pct >= 2:
		return model.TrendStrongUpward
	case pct >= 0.5:
		return model.TrendUpward
	case pct <= -2:
		return model.TrendStrongDownward
	case pct <= -0.5:
		return model.TrendDownward
	default:
		return model.TrendStable
	}
}

// CheckAlert decides whether the percent change crosses the configured
// threshold in a permitted direction. A disabled config never triggers.
func CheckAlert(pct float64, cfg model.AlertConfig) (bool, model.AlertDirection) {
	if !cfg.Enabled {
		return false, model.AlertNone
	}
	t := cfg.ThresholdPercent
	switch cfg.Mode {
	case model.AlertModeDrop:
		if pct <= -t {
			return true, model.AlertDrop
		}
	case model.AlertModeRise:
		if pct >= t {
			return true, model.AlertRise
		}
	case model.AlertModeBoth:
		if pct <= -t {
			return true, model.AlertDrop
		}
		if pct >= t {
			return true, model.AlertRise
		}
	}
	return false, model.AlertNone
}

// stdDev is the sample standard deviation; 0 for fewer than two prices.
func stdDev(prices []float64, mean float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	var ss float64
	for _, p := range prices {
		d := p - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(prices)-1))
}

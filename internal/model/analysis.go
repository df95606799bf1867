package model

// TrendLabel is one of five fixed categories describing the percent price
// change over the analyzed period.
type TrendLabel string

const (
	TrendStrongUpward   TrendLabel = "Strong Upward"
	TrendUpward         TrendLabel = "Upward"
	TrendStable         TrendLabel = "Stable"
	TrendDownward       TrendLabel = "Downward"
	TrendStrongDownward TrendLabel = "Strong Downward"
)

// AnalysisResult summarizes one price series. Derived purely from the series
// and an AlertConfig; nothing here is persisted state.
type AnalysisResult struct {
	Current       float64 `json:"current"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	Volatility    float64 `json:"volatility"`
	// PricePosition is where the current price sits in the min/max range, 0.0 ~ 1.0.
	PricePosition float64    `json:"price_position"`
	Trend         TrendLabel `json:"trend"`

	AlertTriggered bool           `json:"alert_triggered"`
	AlertDirection AlertDirection `json:"alert_direction"`
}

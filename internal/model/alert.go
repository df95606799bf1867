package model

import (
	"fmt"
	"strings"
	"time"
)

// AlertMode selects which price-movement direction(s) may trigger an alert.
type AlertMode string

const (
	AlertModeDrop AlertMode = "drop"
	AlertModeRise AlertMode = "rise"
	AlertModeBoth AlertMode = "both"
)

// ParseAlertMode converts user input into an AlertMode.
func ParseAlertMode(s string) (AlertMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop", "price drop":
		return AlertModeDrop, nil
	case "rise", "price rise":
		return AlertModeRise, nil
	case "", "both":
		return AlertModeBoth, nil
	default:
		return "", fmt.Errorf("unknown alert mode %q (want drop, rise or both)", s)
	}
}

// AlertDirection is the direction of a triggered alert.
type AlertDirection string

const (
	AlertNone AlertDirection = "none"
	AlertDrop AlertDirection = "drop"
	AlertRise AlertDirection = "rise"
)

const (
	// MinThresholdPercent and MaxThresholdPercent bound the configurable
	// alert threshold. Values outside the range are clamped at the input
	// boundary, never inside the analyzer.
	MinThresholdPercent = 1.0
	MaxThresholdPercent = 10.0
)

// AlertConfig is an immutable settings record for alert evaluation.
type AlertConfig struct {
	Enabled          bool      `json:"enabled"`
	Mode             AlertMode `json:"mode"`
	ThresholdPercent float64   `json:"threshold_percent"`
}

// ClampThreshold returns pct forced into [MinThresholdPercent, MaxThresholdPercent].
func ClampThreshold(pct float64) float64 {
	if pct < MinThresholdPercent {
		return MinThresholdPercent
	}
	if pct > MaxThresholdPercent {
		return MaxThresholdPercent
	}
	return pct
}

// AlertEvent records one triggered alert for history and auditing.
type AlertEvent struct {
	ID            string         `json:"id"`
	Metal         Metal          `json:"metal"`
	Price         float64        `json:"price"`
	PercentChange float64        `json:"percent_change"`
	Direction     AlertDirection `json:"direction"`
	Threshold     float64        `json:"threshold"`
	At            time.Time      `json:"at"`
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// Metal identifies one of the supported commodities.
type Metal string

const (
	MetalGold   Metal = "gold"
	MetalSilver Metal = "silver"
)

// Symbol returns the ISO 4217 metal code used by price APIs.
func (m Metal) Symbol() string {
	if m == MetalSilver {
		return "XAG"
	}
	return "XAU"
}

// ParseMetal converts user input into a Metal.
func ParseMetal(s string) (Metal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gold", "xau":
		return MetalGold, nil
	case "silver", "xag":
		return MetalSilver, nil
	default:
		return "", fmt.Errorf("unknown metal %q (want gold or silver)", s)
	}
}

// Period is the historical window requested for analysis.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Days returns the number of calendar days covered by the period.
func (p Period) Days() int {
	switch p {
	case PeriodMonth:
		return 30
	case PeriodYear:
		return 365
	default:
		return 7
	}
}

// ParsePeriod converts user input into a Period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "7d":
		return PeriodWeek, nil
	case "month", "30d":
		return PeriodMonth, nil
	case "year", "365d", "1y":
		return PeriodYear, nil
	default:
		return "", fmt.Errorf("unknown period %q (want week, month or year)", s)
	}
}

// Currency is the display currency for prices.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
)

// ParseCurrency converts user input into a Currency.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "USD":
		return CurrencyUSD, nil
	case "INR":
		return CurrencyINR, nil
	default:
		return "", fmt.Errorf("unknown currency %q (want USD or INR)", s)
	}
}

// PricePoint is a single dated price observation. High/Low are approximated
// (±1.5%) when the upstream API only provides one rate per day.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
}

// PriceSeries holds chronological price data for one metal over a period.
// It is immutable once fetched.
type PriceSeries struct {
	Metal     Metal        `json:"metal"`
	Currency  Currency     `json:"currency"`
	Points    []PricePoint `json:"points"`
	Source    string       `json:"source"`
	Mock      bool         `json:"mock"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Prices returns the price column of the series.
func (s *PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.Price
	}
	return prices
}

// SourceRef points at a web page mentioning the current price.
type SourceRef struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published,omitempty"`
}

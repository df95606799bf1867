package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"MetalWatch/internal/httpclient"
)

const exchangeRateBaseURL = "https://v6.exchangerate-api.com/v6"

// FallbackUSDINR is used when the exchange-rate API is unavailable or no key
// is configured.
const FallbackUSDINR = 83.5

// RateFetcher converts USD prices to INR via the ExchangeRate-API.
type RateFetcher struct {
	BaseURL string
	APIKey  string
	Client  *httpclient.Client
}

// NewRateFetcher creates a USD/INR rate fetcher.
func NewRateFetcher(apiKey string, client *httpclient.Client) *RateFetcher {
	if client == nil {
		client = httpclient.New(httpclient.Options{})
	}
	return &RateFetcher{BaseURL: exchangeRateBaseURL, APIKey: apiKey, Client: client}
}

type latestRatesResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// USDToINR returns the current USD→INR rate, falling back to FallbackUSDINR
// on any failure. A missing key is a normal, handled condition.
func (f *RateFetcher) USDToINR(ctx context.Context) float64 {
	if f.APIKey == "" {
		log.Warn().Float64("fallback", FallbackUSDINR).Msg("EXCHANGERATE_API_KEY not set, using fallback USD/INR rate")
		return FallbackUSDINR
	}

	endpoint := fmt.Sprintf("%s/%s/latest/USD", f.BaseURL, f.APIKey)
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return FallbackUSDINR
	}
	resp, err := f.Client.Do(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("exchange-rate fetch failed, using fallback rate")
		return FallbackUSDINR
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("exchange-rate API error, using fallback rate")
		return FallbackUSDINR
	}

	var latest latestRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&latest); err != nil {
		log.Warn().Err(err).Msg("exchange-rate decode failed, using fallback rate")
		return FallbackUSDINR
	}
	rate, ok := latest.ConversionRates["INR"]
	if !ok || rate <= 0 {
		return FallbackUSDINR
	}
	return rate
}

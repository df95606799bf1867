package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"MetalWatch/internal/httpclient"
	"MetalWatch/internal/model"
)

const metalPriceBaseURL = "https://api.metalpriceapi.com/v1"

// highLowSpread approximates daily high/low from a single rate, matching the
// free-tier data the API provides.
const highLowSpread = 0.015

// MetalPriceFetcher implements Fetcher using the MetalpriceAPI timeframe endpoint.
type MetalPriceFetcher struct {
	BaseURL string
	APIKey  string
	Client  *httpclient.Client
}

// NewMetalPriceFetcher creates a fetcher for api.metalpriceapi.com.
func NewMetalPriceFetcher(apiKey string, client *httpclient.Client) *MetalPriceFetcher {
	if client == nil {
		client = httpclient.New(httpclient.Options{})
	}
	return &MetalPriceFetcher{
		BaseURL: metalPriceBaseURL,
		APIKey:  apiKey,
		Client:  client,
	}
}

func (f *MetalPriceFetcher) Name() string { return "metalpriceapi" }

// timeframeResponse is the JSON shape of the /v1/timeframe endpoint. Rates are
// keyed by date, then by symbol: "USDXAU" carries USD per ounce directly,
// plain "XAU" carries the inverse (ounces per USD).
type timeframeResponse struct {
	Success bool                          `json:"success"`
	Rates   map[string]map[string]float64 `json:"rates"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (f *MetalPriceFetcher) FetchSeries(ctx context.Context, metal model.Metal, period model.Period) (*model.PriceSeries, error) {
	symbol := metal.Symbol()
	now := time.Now().UTC()

	params := url.Values{}
	params.Set("api_key", f.APIKey)
	params.Set("start_date", now.AddDate(0, 0, -period.Days()).Format("2006-01-02"))
	params.Set("end_date", now.Format("2006-01-02"))
	params.Set("base", "USD")
	params.Set("currencies", symbol)

	endpoint := fmt.Sprintf("%s/timeframe?%s", f.BaseURL, params.Encode())
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("metalpriceapi fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("metalpriceapi read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metalpriceapi: status %d, body: %s", resp.StatusCode, string(body))
	}

	var tf timeframeResponse
	if err := json.Unmarshal(body, &tf); err != nil {
		return nil, fmt.Errorf("metalpriceapi decode: %w", err)
	}
	if !tf.Success {
		if tf.Error != nil {
			return nil, fmt.Errorf("metalpriceapi error %d: %s", tf.Error.Code, tf.Error.Info)
		}
		return nil, fmt.Errorf("metalpriceapi: response unsuccessful")
	}

	points := make([]model.PricePoint, 0, len(tf.Rates))
	for date, rates := range tf.Rates {
		price, ok := rates["USD"+symbol]
		if !ok {
			// Inverse quote: ounces per USD.
			if inv := rates[symbol]; inv > 0 {
				price = 1 / inv
			}
		}
		if price <= 0 {
			continue
		}
		ts, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		points = append(points, model.PricePoint{
			Time:  ts,
			Price: price,
			High:  price * (1 + highLowSpread),
			Low:   price * (1 - highLowSpread),
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("metalpriceapi: no valid price data for %s", symbol)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	return &model.PriceSeries{
		Metal:     metal,
		Currency:  model.CurrencyUSD,
		Points:    points,
		Source:    f.Name(),
		FetchedAt: time.Now(),
	}, nil
}

func (f *MetalPriceFetcher) FetchCurrentPrice(ctx context.Context, metal model.Metal) (float64, error) {
	series, err := f.FetchSeries(ctx, metal, model.PeriodWeek)
	if err != nil {
		return 0, err
	}
	return series.Points[len(series.Points)-1].Price, nil
}

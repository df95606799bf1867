package collector

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"MetalWatch/internal/model"
)

// mockBasePrices are the walk starting points per metal (USD per ounce).
var mockBasePrices = map[model.Metal]float64{
	model.MetalGold:   2050,
	model.MetalSilver: 24.5,
}

// mockSeed keeps mock series deterministic across requests.
const mockSeed = 42

// MockFetcher produces a deterministic random-walk series. Used when no API
// key is configured, or as the fallback when a live fetch fails.
type MockFetcher struct{}

func NewMockFetcher() *MockFetcher { return &MockFetcher{} }

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, metal model.Metal, period model.Period) (*model.PriceSeries, error) {
	base := mockBasePrices[metal]
	if base == 0 {
		base = mockBasePrices[model.MetalGold]
	}

	days := period.Days()
	rng := rand.New(rand.NewSource(mockSeed))
	points := make([]model.PricePoint, days)

	price := base
	now := time.Now()
	for i := 0; i < days; i++ {
		price += rng.NormFloat64() * base * 0.01
		if price <= 0 {
			price = base
		}
		points[i] = model.PricePoint{
			Time:  now.AddDate(0, 0, -(days - 1 - i)),
			Price: price,
			High:  price * (1 + highLowSpread),
			Low:   price * (1 - highLowSpread),
		}
	}

	return &model.PriceSeries{
		Metal:     metal,
		Currency:  model.CurrencyUSD,
		Points:    points,
		Source:    m.Name(),
		Mock:      true,
		FetchedAt: now,
	}, nil
}

func (m *MockFetcher) FetchCurrentPrice(ctx context.Context, metal model.Metal) (float64, error) {
	series, err := m.FetchSeries(ctx, metal, model.PeriodWeek)
	if err != nil {
		return 0, err
	}
	return series.Points[len(series.Points)-1].Price, nil
}

// MockInsighter produces canned market commentary when the chat API is not
// configured.
type MockInsighter struct{}

func NewMockInsighter() *MockInsighter { return &MockInsighter{} }

func (m *MockInsighter) Name() string { return "mock" }

func (m *MockInsighter) GenerateInsight(_ context.Context, series *model.PriceSeries, result *model.AnalysisResult) (string, error) {
	return fmt.Sprintf(
		"Mock analysis: The %s market shows a %+.2f%% change over the period, likely influenced by macroeconomic factors and supply-demand dynamics.",
		series.Metal, result.PercentChange), nil
}

// MockSourceFinder returns a fixed list of price sources when the search API
// is not configured.
type MockSourceFinder struct{}

func NewMockSourceFinder() *MockSourceFinder { return &MockSourceFinder{} }

func (m *MockSourceFinder) Name() string { return "mock" }

func (m *MockSourceFinder) FindSources(_ context.Context, metal model.Metal) ([]model.SourceRef, error) {
	name := string(metal)
	return []model.SourceRef{
		{Title: "Kitco - Live " + name + " prices", URL: "https://www.kitco.com"},
		{Title: "BullionVault " + name + " price chart", URL: "https://www.bullionvault.com"},
		{Title: "goldprice.org spot " + name, URL: "https://goldprice.org"},
	}, nil
}

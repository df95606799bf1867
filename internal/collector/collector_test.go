package collector

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MetalWatch/internal/httpclient"
	"MetalWatch/internal/model"
)

// failingFetcher simulates an unreachable live price source.
type failingFetcher struct{}

func (f *failingFetcher) Name() string { return "failing" }

func (f *failingFetcher) FetchSeries(_ context.Context, _ model.Metal, _ model.Period) (*model.PriceSeries, error) {
	return nil, errors.New("connection refused")
}

func (f *failingFetcher) FetchCurrentPrice(_ context.Context, _ model.Metal) (float64, error) {
	return 0, errors.New("connection refused")
}

func TestMockFetcher_Deterministic(t *testing.T) {
	m := NewMockFetcher()
	a, err := m.FetchSeries(context.Background(), model.MetalGold, model.PeriodWeek)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.FetchSeries(context.Background(), model.MetalGold, model.PeriodWeek)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Points) != model.PeriodWeek.Days() {
		t.Fatalf("expected %d points, got %d", model.PeriodWeek.Days(), len(a.Points))
	}
	for i := range a.Points {
		if a.Points[i].Price != b.Points[i].Price {
			t.Fatalf("mock series not deterministic at index %d: %v vs %v", i, a.Points[i].Price, b.Points[i].Price)
		}
	}
	if !a.Mock {
		t.Error("mock series must carry the Mock flag")
	}
	for _, p := range a.Points {
		if p.Price <= 0 {
			t.Errorf("mock price must stay positive, got %v", p.Price)
		}
		if p.High < p.Price || p.Low > p.Price {
			t.Errorf("high/low band must bracket the price: %v not in [%v, %v]", p.Price, p.Low, p.High)
		}
	}
}

func TestMockFetcher_SeriesEndsToday(t *testing.T) {
	m := NewMockFetcher()
	series, err := m.FetchSeries(context.Background(), model.MetalGold, model.PeriodWeek)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Now()
	last := series.Points[len(series.Points)-1].Time
	if last.Year() != now.Year() || last.YearDay() != now.YearDay() {
		t.Errorf("last point must be dated today, got %s", last.Format("2006-01-02"))
	}
	first := series.Points[0].Time
	wantFirst := now.AddDate(0, 0, -(model.PeriodWeek.Days() - 1))
	if first.Year() != wantFirst.Year() || first.YearDay() != wantFirst.YearDay() {
		t.Errorf("first point must be %d days back, got %s", model.PeriodWeek.Days()-1, first.Format("2006-01-02"))
	}
}

func TestMockFetcher_PeriodLengths(t *testing.T) {
	m := NewMockFetcher()
	for _, period := range []model.Period{model.PeriodWeek, model.PeriodMonth, model.PeriodYear} {
		series, err := m.FetchSeries(context.Background(), model.MetalSilver, period)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", period, err)
		}
		if len(series.Points) != period.Days() {
			t.Errorf("%s: expected %d points, got %d", period, period.Days(), len(series.Points))
		}
	}
}

func TestCollector_FallsBackToMockOnFetchError(t *testing.T) {
	col := New(&failingFetcher{}, nil, nil, nil)
	series, err := col.CollectSeries(context.Background(), model.MetalGold, model.PeriodWeek, model.CurrencyUSD)
	if err != nil {
		t.Fatalf("expected mock fallback, got error: %v", err)
	}
	if !series.Mock {
		t.Error("expected fallback series to be flagged as mock")
	}
	if series.Source != "mock" {
		t.Errorf("expected mock source, got %q", series.Source)
	}
}

func TestCollector_MockWhenNoLiveFetcher(t *testing.T) {
	col := New(nil, nil, nil, nil)
	series, err := col.CollectSeries(context.Background(), model.MetalSilver, model.PeriodMonth, model.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !series.Mock {
		t.Error("expected mock series when no live fetcher is configured")
	}
}

func TestCollector_INRConversionUsesFallbackRate(t *testing.T) {
	col := New(nil, nil, nil, nil)
	usd, err := col.CollectSeries(context.Background(), model.MetalGold, model.PeriodWeek, model.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inr, err := col.CollectSeries(context.Background(), model.MetalGold, model.PeriodWeek, model.CurrencyINR)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inr.Currency != model.CurrencyINR {
		t.Errorf("expected INR currency, got %s", inr.Currency)
	}
	want := usd.Points[0].Price * FallbackUSDINR
	if got := inr.Points[0].Price; got != want {
		t.Errorf("expected converted price %v, got %v", want, got)
	}
}

func TestMetalPriceFetcher_FetchSeries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("currencies"); got != "XAU" {
			t.Errorf("expected currencies=XAU, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		// Mixed quoting: one direct USDXAU rate, one inverse, one unusable.
		w.Write([]byte(`{
			"success": true,
			"rates": {
				"2025-01-02": {"USDXAU": 2000},
				"2025-01-01": {"XAU": 0.0005},
				"2025-01-03": {"XAU": 0}
			}
		}`))
	}))
	defer ts.Close()

	f := NewMetalPriceFetcher("test-key", httpclient.New(httpclient.Options{}))
	f.BaseURL = ts.URL

	series, err := f.FetchSeries(context.Background(), model.MetalGold, model.PeriodWeek)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Points) != 2 {
		t.Fatalf("expected 2 valid points, got %d", len(series.Points))
	}
	// Chronological order: the inverse-quoted 2025-01-01 comes first.
	if math.Abs(series.Points[0].Price-2000) > 1e-6 {
		t.Errorf("expected inverse rate 1/0.0005 = 2000, got %v", series.Points[0].Price)
	}
	if series.Points[1].Price != 2000 {
		t.Errorf("expected direct rate 2000, got %v", series.Points[1].Price)
	}
	if !series.Points[0].Time.Before(series.Points[1].Time) {
		t.Error("points must be in chronological order")
	}
	if series.Mock {
		t.Error("live series must not carry the Mock flag")
	}
}

func TestMetalPriceFetcher_UnsuccessfulResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false, "error": {"code": 101, "info": "invalid api key"}}`))
	}))
	defer ts.Close()

	f := NewMetalPriceFetcher("bad-key", httpclient.New(httpclient.Options{}))
	f.BaseURL = ts.URL

	if _, err := f.FetchSeries(context.Background(), model.MetalGold, model.PeriodWeek); err == nil {
		t.Error("expected error for unsuccessful response")
	}
}

func TestCerebrasInsighter_GenerateInsight(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "Gold is consolidating after a strong run."}}]}`))
	}))
	defer ts.Close()

	ins := NewCerebrasInsighter("test-key", httpclient.New(httpclient.Options{}))
	ins.URL = ts.URL

	series := &model.PriceSeries{Metal: model.MetalGold, Currency: model.CurrencyUSD}
	result := &model.AnalysisResult{Current: 2050, PercentChange: 1.2, Max: 2080, Min: 2010}
	insight, err := ins.GenerateInsight(context.Background(), series, result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insight != "Gold is consolidating after a strong run." {
		t.Errorf("unexpected insight: %q", insight)
	}
}

func TestCerebrasInsighter_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	ins := NewCerebrasInsighter("test-key", httpclient.New(httpclient.Options{}))
	ins.URL = ts.URL

	series := &model.PriceSeries{Metal: model.MetalGold, Currency: model.CurrencyUSD}
	if _, err := ins.GenerateInsight(context.Background(), series, &model.AnalysisResult{}); err == nil {
		t.Error("expected error for response without choices")
	}
}

func TestCollector_InsightFallsBackToMock(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	ins := NewCerebrasInsighter("test-key", httpclient.New(httpclient.Options{}))
	ins.URL = ts.URL
	col := New(nil, nil, ins, nil)

	series := &model.PriceSeries{Metal: model.MetalSilver, Currency: model.CurrencyUSD, Mock: true}
	result := &model.AnalysisResult{PercentChange: -2.5}
	insight, mock, err := col.CollectInsight(context.Background(), series, result)
	if err != nil {
		t.Fatalf("expected mock fallback, got error: %v", err)
	}
	if !mock {
		t.Error("expected fallback insight to be flagged as mock")
	}
	if !strings.Contains(insight, "silver") || !strings.Contains(insight, "-2.50%") {
		t.Errorf("mock insight must reference the metal and change: %q", insight)
	}
}

func TestCollector_InsightMockWhenNoInsighter(t *testing.T) {
	col := New(nil, nil, nil, nil)
	series := &model.PriceSeries{Metal: model.MetalGold, Currency: model.CurrencyUSD, Mock: true}
	insight, mock, err := col.CollectInsight(context.Background(), series, &model.AnalysisResult{PercentChange: 0.8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock {
		t.Error("expected mock insight when no chat API is configured")
	}
	if insight == "" {
		t.Error("expected a non-empty mock insight")
	}
}

func TestMockSourceFinder(t *testing.T) {
	refs, err := NewMockSourceFinder().FindSources(context.Background(), model.MetalGold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) == 0 {
		t.Fatal("expected at least one mock source")
	}
	for _, r := range refs {
		if r.URL == "" || r.Title == "" {
			t.Errorf("mock source missing fields: %+v", r)
		}
	}
}

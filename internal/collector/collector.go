package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"MetalWatch/internal/model"
)

// Collector orchestrates price fetching with mock fallback and currency
// conversion. A failed live fetch is recovered locally by substituting the
// deterministic mock series; the Mock flag on the result tells callers to
// surface an informational indicator.
type Collector struct {
	live      Fetcher // nil when no API key is configured
	mock      Fetcher
	finder    SourceFinder
	insighter Insighter
	rates     *RateFetcher
}

// New creates a Collector. live, finder and insighter may be nil, in which
// case mock data is always used for the respective concern.
func New(live Fetcher, finder SourceFinder, insighter Insighter, rates *RateFetcher) *Collector {
	return &Collector{
		live:      live,
		mock:      NewMockFetcher(),
		finder:    finder,
		insighter: insighter,
		rates:     rates,
	}
}

// CollectSeries fetches the historical series for one metal and period,
// converted into the requested currency.
func (c *Collector) CollectSeries(ctx context.Context, metal model.Metal, period model.Period, currency model.Currency) (*model.PriceSeries, error) {
	series, err := c.fetchSeries(ctx, metal, period)
	if err != nil {
		return nil, err
	}
	if currency == model.CurrencyINR {
		series = convertSeries(series, model.CurrencyINR, c.usdToINR(ctx))
	}
	return series, nil
}

func (c *Collector) usdToINR(ctx context.Context) float64 {
	if c.rates == nil {
		return FallbackUSDINR
	}
	return c.rates.USDToINR(ctx)
}

// CollectCurrentPrice fetches the latest price for one metal in the
// requested currency.
func (c *Collector) CollectCurrentPrice(ctx context.Context, metal model.Metal, currency model.Currency) (float64, error) {
	fetcher := c.mock
	if c.live != nil {
		fetcher = c.live
	}
	price, err := fetcher.FetchCurrentPrice(ctx, metal)
	if err != nil && fetcher != c.mock {
		log.Warn().Err(err).Str("source", fetcher.Name()).Msg("current price fetch failed, falling back to mock data")
		price, err = c.mock.FetchCurrentPrice(ctx, metal)
	}
	if err != nil {
		return 0, err
	}
	if currency == model.CurrencyINR {
		price *= c.usdToINR(ctx)
	}
	return price, nil
}

// CollectSources looks up web pages for the current price, falling back to a
// fixed mock list.
func (c *Collector) CollectSources(ctx context.Context, metal model.Metal) ([]model.SourceRef, bool, error) {
	if c.finder != nil {
		refs, err := c.finder.FindSources(ctx, metal)
		if err == nil {
			return refs, false, nil
		}
		log.Warn().Err(err).Str("source", c.finder.Name()).Msg("source search failed, falling back to mock sources")
	}
	refs, err := NewMockSourceFinder().FindSources(ctx, metal)
	return refs, true, err
}

// CollectInsight generates market commentary for an analyzed series, falling
// back to a canned insight when the chat API is unavailable.
func (c *Collector) CollectInsight(ctx context.Context, series *model.PriceSeries, result *model.AnalysisResult) (string, bool, error) {
	if c.insighter != nil {
		insight, err := c.insighter.GenerateInsight(ctx, series, result)
		if err == nil {
			return insight, false, nil
		}
		log.Warn().Err(err).Str("source", c.insighter.Name()).Msg("insight generation failed, falling back to mock insight")
	}
	insight, err := NewMockInsighter().GenerateInsight(ctx, series, result)
	return insight, true, err
}

func (c *Collector) fetchSeries(ctx context.Context, metal model.Metal, period model.Period) (*model.PriceSeries, error) {
	if c.live == nil {
		return c.mock.FetchSeries(ctx, metal, period)
	}
	series, err := c.live.FetchSeries(ctx, metal, period)
	if err != nil {
		log.Warn().Err(err).Str("source", c.live.Name()).Msg("series fetch failed, falling back to mock data")
		return c.mock.FetchSeries(ctx, metal, period)
	}
	return series, nil
}

// convertSeries returns a copy of the series with all prices multiplied by
// rate. The input series is never mutated.
func convertSeries(series *model.PriceSeries, currency model.Currency, rate float64) *model.PriceSeries {
	points := make([]model.PricePoint, len(series.Points))
	for i, p := range series.Points {
		points[i] = model.PricePoint{
			Time:  p.Time,
			Price: p.Price * rate,
			High:  p.High * rate,
			Low:   p.Low * rate,
		}
	}
	return &model.PriceSeries{
		Metal:     series.Metal,
		Currency:  currency,
		Points:    points,
		Source:    series.Source,
		Mock:      series.Mock,
		FetchedAt: time.Now(),
	}
}

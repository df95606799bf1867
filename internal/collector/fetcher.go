package collector

import (
	"context"

	"MetalWatch/internal/model"
)

// Fetcher defines the interface for fetching metal price data.
type Fetcher interface {
	FetchSeries(ctx context.Context, metal model.Metal, period model.Period) (*model.PriceSeries, error)
	FetchCurrentPrice(ctx context.Context, metal model.Metal) (float64, error)
	Name() string
}

// SourceFinder looks up web pages mentioning the current price.
type SourceFinder interface {
	FindSources(ctx context.Context, metal model.Metal) ([]model.SourceRef, error)
	Name() string
}

// Insighter generates a short market commentary from an analysis result.
type Insighter interface {
	GenerateInsight(ctx context.Context, series *model.PriceSeries, result *model.AnalysisResult) (string, error)
	Name() string
}

package recorder

import (
	"MetalWatch/internal/model"
)

// AnalysisSnapshot holds all data for one recorded analysis run.
type AnalysisSnapshot struct {
	Metal    model.Metal
	Period   model.Period
	Currency model.Currency
	Source   string
	Mock     bool
	Result   *model.AnalysisResult
}

// Recorder persists analysis history and triggered alerts.
type Recorder interface {
	RecordAnalysis(snap *AnalysisSnapshot) error
	RecordAlert(evt *model.AlertEvent) error
	RecentAlerts(limit int) ([]model.AlertEvent, error)
	Close() error
}

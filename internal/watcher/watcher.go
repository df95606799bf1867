package watcher

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MetalWatch/internal/analyzer"
	"MetalWatch/internal/collector"
	"MetalWatch/internal/model"
	"MetalWatch/internal/notifier"
	"MetalWatch/internal/recorder"
)

// Watcher periodically re-evaluates alert conditions for the watched metals
// and sends email notifications when they trigger.
type Watcher struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Ctx       context.Context

	metals    []model.Metal
	period    model.Period
	currency  model.Currency
	alertCfg  model.AlertConfig
	recipient string
}

// Options configure the watch loop.
type Options struct {
	Metals    []model.Metal
	Period    model.Period
	Currency  model.Currency
	AlertCfg  model.AlertConfig
	Recipient string
}

// New creates a Watcher.
func New(ctx context.Context, col *collector.Collector, n notifier.Notifier, rec recorder.Recorder, opts Options) *Watcher {
	return &Watcher{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Ctx:       ctx,
		metals:    opts.Metals,
		period:    opts.Period,
		currency:  opts.Currency,
		alertCfg:  opts.AlertCfg,
		recipient: opts.Recipient,
	}
}

// Register schedules the periodic check.
func (w *Watcher) Register(cronSpec string) error {
	if _, err := w.Cron.AddFunc(cronSpec, w.checkAll); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.Cron.Start()
	log.Info().Msg("watcher started")
}

// Stop stops the cron scheduler gracefully.
func (w *Watcher) Stop() {
	w.Cron.Stop()
	log.Info().Msg("watcher stopped")
}

// RunNow executes one check immediately (manual trigger / RUN_ON_START).
func (w *Watcher) RunNow() {
	w.checkAll()
}

func (w *Watcher) checkAll() {
	for _, metal := range w.metals {
		if err := w.check(metal); err != nil {
			log.Error().Err(err).Str("metal", string(metal)).Msg("watch check failed")
		}
	}
}

func (w *Watcher) check(metal model.Metal) error {
	series, err := w.Collector.CollectSeries(w.Ctx, metal, w.period, w.currency)
	if err != nil {
		return fmt.Errorf("collect %s series: %w", metal, err)
	}

	result, err := analyzer.Analyze(series, w.alertCfg)
	if err != nil {
		return fmt.Errorf("analyze %s series: %w", metal, err)
	}

	log.Info().
		Str("metal", string(metal)).
		Str("trend", string(result.Trend)).
		Float64("percent_change", result.PercentChange).
		Bool("mock", series.Mock).
		Msg("watch check complete")

	if err := w.Recorder.RecordAnalysis(&recorder.AnalysisSnapshot{
		Metal:    metal,
		Period:   w.period,
		Currency: w.currency,
		Source:   series.Source,
		Mock:     series.Mock,
		Result:   result,
	}); err != nil {
		log.Error().Err(err).Msg("record analysis")
	}

	if !result.AlertTriggered {
		return nil
	}

	log.Info().
		Str("metal", string(metal)).
		Str("direction", string(result.AlertDirection)).
		Float64("threshold", w.alertCfg.ThresholdPercent).
		Msg("alert triggered")

	if w.recipient != "" {
		subject := notifier.AlertSubject(metal, result.AlertDirection)
		body := notifier.FormatAlertEmail(series, result, w.alertCfg.ThresholdPercent)
		if err := w.Notifier.Send(w.Ctx, w.recipient, subject, body); err != nil {
			log.Error().Err(err).Msg("send alert email")
		}
	}

	if err := w.Recorder.RecordAlert(&model.AlertEvent{
		Metal:         metal,
		Price:         result.Current,
		PercentChange: result.PercentChange,
		Direction:     result.AlertDirection,
		Threshold:     w.alertCfg.ThresholdPercent,
	}); err != nil {
		log.Error().Err(err).Msg("record alert")
	}
	return nil
}

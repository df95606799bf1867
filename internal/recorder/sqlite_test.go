package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"MetalWatch/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_AlertRoundTrip(t *testing.T) {
	r := openTestRecorder(t)

	evt := &model.AlertEvent{
		Metal:         model.MetalGold,
		Price:         2012.5,
		PercentChange: -4.2,
		Direction:     model.AlertDrop,
		Threshold:     4,
	}
	if err := r.RecordAlert(evt); err != nil {
		t.Fatalf("record alert: %v", err)
	}
	if evt.ID == "" {
		t.Error("expected generated alert id")
	}

	events, err := r.RecentAlerts(10)
	if err != nil {
		t.Fatalf("recent alerts: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(events))
	}
	got := events[0]
	if got.ID != evt.ID || got.Metal != model.MetalGold || got.Direction != model.AlertDrop {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Price != 2012.5 || got.Threshold != 4 {
		t.Errorf("round trip values mismatch: %+v", got)
	}
}

func TestSQLiteRecorder_RecentAlertsOrderAndLimit(t *testing.T) {
	r := openTestRecorder(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		evt := &model.AlertEvent{
			Metal:     model.MetalSilver,
			Direction: model.AlertRise,
			At:        base.Add(time.Duration(i) * time.Minute),
		}
		if err := r.RecordAlert(evt); err != nil {
			t.Fatalf("record alert %d: %v", i, err)
		}
	}

	events, err := r.RecentAlerts(3)
	if err != nil {
		t.Fatalf("recent alerts: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].At.After(events[i-1].At) {
			t.Error("alerts must be ordered newest first")
		}
	}
}

func TestSQLiteRecorder_RecordAnalysis(t *testing.T) {
	r := openTestRecorder(t)

	snap := &AnalysisSnapshot{
		Metal:    model.MetalGold,
		Period:   model.PeriodWeek,
		Currency: model.CurrencyUSD,
		Source:   "mock",
		Mock:     true,
		Result: &model.AnalysisResult{
			Current:        2050,
			Min:            2000,
			Max:            2100,
			Mean:           2048,
			PercentChange:  1.2,
			Trend:          model.TrendUpward,
			AlertDirection: model.AlertNone,
		},
	}
	if err := r.RecordAnalysis(snap); err != nil {
		t.Fatalf("record analysis: %v", err)
	}
}

package notifier

import (
	"strings"
	"testing"
	"time"

	"MetalWatch/internal/model"
)

func testSeries() *model.PriceSeries {
	return &model.PriceSeries{
		Metal:    model.MetalGold,
		Currency: model.CurrencyUSD,
		Points: []model.PricePoint{
			{Time: time.Now().AddDate(0, 0, -1), Price: 2100},
			{Time: time.Now(), Price: 2008.75},
		},
		Source: "mock",
		Mock:   true,
	}
}

func TestFormatAlertEmail(t *testing.T) {
	result := &model.AnalysisResult{
		Current:        2008.75,
		PercentChange:  -4.34,
		Trend:          model.TrendStrongDownward,
		AlertTriggered: true,
		AlertDirection: model.AlertDrop,
	}
	body := FormatAlertEmail(testSeries(), result, 4)

	for _, want := range []string{
		"Gold Price Alert",
		"$2,008.75",
		"-4.34%",
		string(model.TrendStrongDownward),
		"4.0%",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("email body missing %q", want)
		}
	}
	if !strings.Contains(body, "<html>") || !strings.Contains(body, "</html>") {
		t.Error("expected an HTML document")
	}
}

func TestAlertSubject(t *testing.T) {
	if got := AlertSubject(model.MetalGold, model.AlertDrop); !strings.HasPrefix(got, "Gold") || !strings.Contains(got, "dropped") {
		t.Errorf("unexpected subject: %q", got)
	}
	if got := AlertSubject(model.MetalSilver, model.AlertRise); !strings.HasPrefix(got, "Silver") || !strings.Contains(got, "rose") {
		t.Errorf("unexpected subject: %q", got)
	}
}

func TestFormatAnalysisReport_MarksMockData(t *testing.T) {
	result := &model.AnalysisResult{Current: 2008.75, Trend: model.TrendStable}
	report := FormatAnalysisReport(testSeries(), result)
	if !strings.Contains(report, "mock data in use") {
		t.Error("report must flag mock data")
	}
	if !strings.Contains(report, "Gold") {
		t.Error("report must name the metal")
	}
}

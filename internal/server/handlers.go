package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"MetalWatch/internal/analyzer"
	"MetalWatch/internal/collector"
	"MetalWatch/internal/model"
	"MetalWatch/internal/recorder"
)

// maOverlayWindow is the moving-average window drawn over the price chart.
const maOverlayWindow = 4

// rsiPeriod is the RSI lookback included when the series is long enough.
const rsiPeriod = 14

// Handler serves the dashboard API. Each request is one synchronous
// fetch-then-compute-then-respond sequence with no shared mutable state.
type Handler struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Defaults  model.AlertConfig
	// KeyStatus reports which provider keys are configured, for /v1/health.
	KeyStatus map[string]bool
}

// NewHandler creates a Handler.
func NewHandler(col *collector.Collector, rec recorder.Recorder, defaults model.AlertConfig, keyStatus map[string]bool) *Handler {
	return &Handler{Collector: col, Recorder: rec, Defaults: defaults, KeyStatus: keyStatus}
}

// analysisResponse is the payload backing the dashboard's main tab.
type analysisResponse struct {
	Metal         model.Metal           `json:"metal"`
	Period        model.Period          `json:"period"`
	Currency      model.Currency        `json:"currency"`
	Source        string                `json:"source"`
	Mock          bool                  `json:"mock"`
	Series        []model.PricePoint    `json:"series"`
	MovingAverage []float64             `json:"moving_average"`
	RSI           *float64              `json:"rsi,omitempty"`
	Analysis      *model.AnalysisResult `json:"analysis"`
	AlertConfig   model.AlertConfig     `json:"alert_config"`
}

// GetAnalysis handles GET /v1/analysis.
func (h *Handler) GetAnalysis(c *gin.Context) {
	metal, err := model.ParseMetal(c.DefaultQuery("metal", string(model.MetalGold)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	period, err := model.ParsePeriod(c.DefaultQuery("period", string(model.PeriodWeek)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	currency, err := model.ParseCurrency(c.Query("currency"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	alertCfg, err := h.alertConfig(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	series, err := h.Collector.CollectSeries(c.Request.Context(), metal, period, currency)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	result, err := analyzer.Analyze(series, alertCfg)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	resp := analysisResponse{
		Metal:         metal,
		Period:        period,
		Currency:      currency,
		Source:        series.Source,
		Mock:          series.Mock,
		Series:        series.Points,
		MovingAverage: analyzer.MovingAverage(series.Prices(), maOverlayWindow),
		Analysis:      result,
		AlertConfig:   alertCfg,
	}
	if rsi, err := analyzer.CalculateRSI(series.Prices(), rsiPeriod); err == nil {
		resp.RSI = &rsi
	}

	c.JSON(http.StatusOK, resp)
}

// GetCurrentPrice handles GET /v1/price.
func (h *Handler) GetCurrentPrice(c *gin.Context) {
	metal, err := model.ParseMetal(c.DefaultQuery("metal", string(model.MetalGold)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	currency, err := model.ParseCurrency(c.Query("currency"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := h.Collector.CollectCurrentPrice(c.Request.Context(), metal, currency)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metal": metal, "currency": currency, "price": price})
}

// GetSources handles GET /v1/sources.
func (h *Handler) GetSources(c *gin.Context) {
	metal, err := model.ParseMetal(c.DefaultQuery("metal", string(model.MetalGold)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refs, mock, err := h.Collector.CollectSources(c.Request.Context(), metal)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"metal": metal, "mock": mock, "sources": refs})
}

// GetInsights handles GET /v1/insights. The series is analyzed first so the
// commentary is grounded in the same statistics the dashboard shows.
func (h *Handler) GetInsights(c *gin.Context) {
	metal, err := model.ParseMetal(c.DefaultQuery("metal", string(model.MetalGold)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	period, err := model.ParsePeriod(c.DefaultQuery("period", string(model.PeriodWeek)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	currency, err := model.ParseCurrency(c.Query("currency"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	series, err := h.Collector.CollectSeries(c.Request.Context(), metal, period, currency)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	result, err := analyzer.Analyze(series, h.Defaults)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	insight, mock, err := h.Collector.CollectInsight(c.Request.Context(), series, result)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metal":        metal,
		"period":       period,
		"currency":     currency,
		"mock_data":    series.Mock,
		"mock_insight": mock,
		"insight":      insight,
	})
}

// GetAlertHistory handles GET /v1/alerts/history.
func (h *Handler) GetAlertHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.Recorder.RecentAlerts(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []model.AlertEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": events})
}

// GetHealth handles GET /v1/health.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "apis": h.KeyStatus})
}

// alertConfig builds per-request alert settings, falling back to the
// configured defaults. Thresholds are clamped here, at the input boundary.
func (h *Handler) alertConfig(c *gin.Context) (model.AlertConfig, error) {
	cfg := h.Defaults

	if v := c.Query("alerts"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, err
		}
		cfg.Enabled = enabled
	}
	if v := c.Query("mode"); v != "" {
		mode, err := model.ParseAlertMode(v)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	if v := c.Query("threshold"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, err
		}
		cfg.ThresholdPercent = model.ClampThreshold(t)
	}
	return cfg, nil
}

package server

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the dashboard API router.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1/")
	{
		api.GET("/analysis", h.GetAnalysis)
		api.GET("/price", h.GetCurrentPrice)
		api.GET("/sources", h.GetSources)
		api.GET("/insights", h.GetInsights)
		api.GET("/alerts/history", h.GetAlertHistory)
		api.GET("/health", h.GetHealth)
	}

	return router
}

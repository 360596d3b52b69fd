package handlers

import (
	"net/http"

	"github.com/andresuchdata/autopull/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get returns the replenishment analytics payload. Out-of-range window
// parameters fall back to the service defaults.
func (h *DashboardHandler) Get(c *gin.Context) {
	windowDays := parsePositiveIntWithDefault(c.Query("window_days"), 0)
	staleDays := parsePositiveIntWithDefault(c.Query("stale_days"), 0)
	category := c.Query("category")

	payload, err := h.dashboardService.Analyze(c.Request.Context(), windowDays, staleDays, category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

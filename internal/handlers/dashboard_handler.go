package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daftarapp/daftar-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	jobService       *services.JobService
}

func NewDashboardHandler(dashboardService *services.DashboardService, jobService *services.JobService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		jobService:       jobService,
	}
}

// @Summary Dashboard Summary
// @Description Portfolio totals recomputed from current rows
// @Tags Dashboard
// @Produce json
// @Success 200 {object} services.DashboardSummary
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary Refresh Balances
// @Description Queue a rebuild of the cached balance view
// @Tags Dashboard
// @Produce json
// @Success 202 {object} map[string]string
// @Security BearerAuth
// @Router /dashboard/refresh-balances [post]
func (h *DashboardHandler) RefreshBalances(c *gin.Context) {
	// Queued on the worker rather than run inline; a concurrent view
	// refresh can take a while and must not hold the request open.
	h.jobService.Enqueue(func(ctx context.Context) error {
		return h.dashboardService.RefreshBalances(ctx)
	})

	c.JSON(http.StatusAccepted, gin.H{"message": "balance refresh scheduled"})
}

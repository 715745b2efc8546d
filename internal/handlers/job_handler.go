package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daftarapp/daftar-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// @Summary Background Job Status
// @Description Worker statistics: active, finished and failed jobs, queue length
// @Tags Jobs
// @Produce json
// @Success 200 {object} jobs.WorkerStats
// @Security BearerAuth
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}

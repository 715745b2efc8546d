package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarapp/daftar-api/internal/jobs"
	"github.com/daftarapp/daftar-api/internal/services"
)

func TestJobHandler_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)

	worker := jobs.NewWorker(1)
	defer worker.Shutdown()

	handler := NewJobHandler(services.NewJobService(worker))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/jobs/status", nil)
	handler.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats jobs.WorkerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, int64(0), stats.FailedJobs)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Customer    *CustomerHandler
	Transaction *TransactionHandler
	Payment     *PaymentHandler
	Dashboard   *DashboardHandler
	Report      *ReportHandler
	Events      *EventsHandler
	Job         *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, bus realtime.Bus) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Auth:        NewAuthHandler(svcs.Auth),
		Customer:    NewCustomerHandler(svcs.Customer),
		Transaction: NewTransactionHandler(svcs.Transaction),
		Payment:     NewPaymentHandler(svcs.Payment),
		Dashboard:   NewDashboardHandler(svcs.Dashboard, svcs.Job),
		Report:      NewReportHandler(svcs.Report),
		Events:      NewEventsHandler(bus),
		Job:         NewJobHandler(svcs.Job),
	}
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseUUIDParam reads a UUID path parameter; on failure it writes a 400 and
// returns false.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func totalPages(total int64, perPage int) int64 {
	if perPage <= 0 {
		return 1
	}
	return (total + int64(perPage) - 1) / int64(perPage)
}

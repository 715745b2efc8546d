package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/repository"
	"github.com/daftarapp/daftar-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description Get a paginated list of payments
// @Tags Payments
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param search_term query string false "Search by note"
// @Param method query string false "Filter by payment method"
// @Param transaction_id query string false "Filter by transaction"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(repository.DefaultPageSize)))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort")
	query.SortDir = c.Query("direction")
	query.Filters["method"] = c.Query("method")
	query.Filters["transaction_id"] = c.Query("transaction_id")

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": totalPages(total, query.PerPage),
		},
	})
}

// @Summary Get Payment
// @Description Get a payment with its transaction
// @Tags Payments
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	id, ok := parseUUIDParam(c, "payment_id")
	if !ok {
		return
	}

	payment, err := h.paymentService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

type CreatePaymentRequest struct {
	TransactionID uuid.UUID       `json:"transaction_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	Note          *string         `json:"note"`
}

// @Summary Create Payment
// @Description Apply a payment against a transaction
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body CreatePaymentRequest true "Payment Data"
// @Success 201 {object} models.PaymentResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), services.PaymentInput{
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Method:        req.Method,
		Note:          req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

type UpdatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// @Summary Update Payment
// @Description Update a payment's amount
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Param request body UpdatePaymentRequest true "Payment Data"
// @Success 200 {object} models.PaymentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "payment_id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Delete Payment
// @Description Delete a payment
// @Tags Payments
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [delete]
func (h *PaymentHandler) Destroy(c *gin.Context) {
	id, ok := parseUUIDParam(c, "payment_id")
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment deleted"})
}

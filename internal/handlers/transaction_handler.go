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

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// @Summary List Transactions
// @Description Get a paginated list of transactions
// @Tags Transactions
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param search_term query string false "Search by title"
// @Param type query string false "Filter by transaction type"
// @Param payment_method query string false "Filter by payment method"
// @Param customer_id query string false "Filter by customer"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(repository.DefaultPageSize)))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort")
	query.SortDir = c.Query("direction")
	query.Filters["type"] = c.Query("type")
	query.Filters["payment_method"] = c.Query("payment_method")
	query.Filters["customer_id"] = c.Query("customer_id")

	transactions, total, err := h.transactionService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, transactions[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": totalPages(total, query.PerPage),
		},
	})
}

// @Summary Recent Transactions
// @Description Get the most recent transactions, for the payment form picker
// @Tags Transactions
// @Produce json
// @Param limit query int false "Max rows" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions/recent [get]
func (h *TransactionHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	transactions, err := h.transactionService.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		responses = append(responses, transactions[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"transactions": responses})
}

// @Summary Transaction Types
// @Description List the valid transaction types and payment methods
// @Tags Transactions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /transactions/types [get]
func (h *TransactionHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types":   models.TransactionTypes(),
		"methods": models.PaymentMethods(),
	})
}

// @Summary Get Transaction
// @Description Get a transaction with its customer and payments
// @Tags Transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *TransactionHandler) Show(c *gin.Context) {
	id, ok := parseUUIDParam(c, "transaction_id")
	if !ok {
		return
	}

	transaction, err := h.transactionService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	payments := make([]models.PaymentResponse, 0, len(transaction.Payments))
	for i := range transaction.Payments {
		payments = append(payments, transaction.Payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": transaction.ToResponse(),
		"payments":    payments,
	})
}

type CreateTransactionRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id" binding:"required"`
	Title         string          `json:"title" binding:"required"`
	Description   *string         `json:"description"`
	Type          string          `json:"type" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod *string         `json:"payment_method"`
}

// @Summary Create Transaction
// @Description Create a transaction under a customer
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction Data"
// @Success 201 {object} models.TransactionResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := BindNestedOrFlat(c, "transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.transactionService.Create(c.Request.Context(), services.TransactionInput{
		CustomerID:    req.CustomerID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction.ToResponse()})
}

type UpdateTransactionRequest struct {
	Title  string          `json:"title" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// @Summary Update Transaction
// @Description Update a transaction's title and amount
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Transaction Data"
// @Success 200 {object} models.TransactionResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "transaction_id")
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := BindNestedOrFlat(c, "transaction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.transactionService.Update(c.Request.Context(), id, services.TransactionUpdateInput{
		Title:  req.Title,
		Amount: req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction.ToResponse()})
}

// @Summary Delete Transaction
// @Description Delete a transaction and its payments
// @Tags Transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /transactions/{transaction_id} [delete]
func (h *TransactionHandler) Destroy(c *gin.Context) {
	id, ok := parseUUIDParam(c, "transaction_id")
	if !ok {
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

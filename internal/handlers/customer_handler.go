package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/repository"
	"github.com/daftarapp/daftar-api/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// @Summary List Customers
// @Description Get a paginated list of customers with cached outstanding balances
// @Tags Customers
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(10)
// @Param search_term query string false "Search by name"
// @Param sort query string false "Sort column"
// @Param direction query string false "Sort direction (asc|desc)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(repository.DefaultPageSize)))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort")
	query.SortDir = c.Query("direction")

	customers, total, err := h.customerService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": totalPages(total, query.PerPage),
		},
	})
}

// @Summary All Customers
// @Description Get every customer, for select widgets
// @Tags Customers
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/all [get]
func (h *CustomerHandler) All(c *gin.Context) {
	customers, err := h.customerService.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, customers[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"customers": responses})
}

// @Summary Get Customer
// @Description Get a customer with transactions and derived balances
// @Tags Customers
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} services.CustomerDetail
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customer_id")
	if !ok {
		return
	}

	detail, err := h.customerService.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

type CustomerRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone"`
}

// @Summary Create Customer
// @Description Create a new customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body CustomerRequest true "Customer Data"
// @Success 201 {object} models.CustomerResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), services.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer.ToResponse()})
}

// @Summary Update Customer
// @Description Update a customer's name and phone
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body CustomerRequest true "Customer Data"
// @Success 200 {object} models.CustomerResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customer_id")
	if !ok {
		return
	}

	var req CustomerRequest
	if err := BindNestedOrFlat(c, "customer", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), id, services.CustomerInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse()})
}

// @Summary Delete Customer
// @Description Delete a customer and its transactions
// @Tags Customers
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [delete]
func (h *CustomerHandler) Destroy(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customer_id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daftarapp/daftar-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func sendFile(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Customer Statement
// @Description Download a customer's account statement as PDF
// @Tags Reports
// @Produce application/pdf
// @Param customer_id path string true "Customer ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /reports/customers/{customer_id}/statement [get]
func (h *ReportHandler) CustomerStatement(c *gin.Context) {
	id, ok := parseUUIDParam(c, "customer_id")
	if !ok {
		return
	}

	data, filename, err := h.reportService.CustomerStatementPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	sendFile(c, data, filename, "application/pdf")
}

// @Summary Balances Export
// @Description Download every customer's outstanding balance as XLSX
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/balances [get]
func (h *ReportHandler) Balances(c *gin.Context) {
	data, filename, err := h.reportService.BalancesXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	sendFile(c, data, filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// @Summary Transactions Export
// @Description Download every transaction with derived figures as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/transactions [get]
func (h *ReportHandler) Transactions(c *gin.Context) {
	data, filename, err := h.reportService.TransactionsCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	sendFile(c, data, filename, "text/csv")
}

package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/daftarapp/daftar-api/internal/ledger"
	"github.com/daftarapp/daftar-api/internal/repository"
)

// ReportService renders exports: customer statements, balance sheets and
// transaction dumps.
type ReportService struct {
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
}

// NewReportService creates a new report service
func NewReportService(customerRepo repository.CustomerRepository, txRepo repository.TransactionRepository) *ReportService {
	return &ReportService{
		customerRepo: customerRepo,
		txRepo:       txRepo,
	}
}

// CustomerStatementPDF renders one customer's transactions, payments and
// outstanding balance as a PDF statement.
func (s *ReportService) CustomerStatementPDF(ctx context.Context, customerID uuid.UUID) ([]byte, string, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	transactions, err := s.txRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Account Statement")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, customer.Name)
	pdf.Ln(6)
	if customer.Phone != nil {
		pdf.Cell(40, 8, *customer.Phone)
		pdf.Ln(6)
	}
	pdf.Cell(40, 8, "Generated "+time.Now().Format("2006-01-02"))
	pdf.Ln(10)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(55, 8, "Title", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, "Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Paid", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Remaining", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	lines := make([]ledger.Line, 0, len(transactions))
	for i := range transactions {
		t := &transactions[i]
		amounts := t.PaymentAmounts()
		lines = append(lines, ledger.Line{Amount: t.Amount, Payments: amounts})

		pdf.CellFormat(55, 8, t.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, t.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, ledger.Display(t.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, ledger.Display(ledger.PaidTotal(amounts)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, ledger.Display(ledger.Remaining(t.Amount, amounts)), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(60, 8, "Outstanding: "+ledger.Display(ledger.Outstanding(lines)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("statement_%s_%s.pdf", customer.ID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// BalancesXLSX renders every customer's outstanding balance as a
// spreadsheet, with receivable/payable columns matching the dashboard
// buckets.
func (s *ReportService) BalancesXLSX(ctx context.Context) ([]byte, string, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, "", err
	}

	transactions, err := s.txRepo.FindAllWithPayments(ctx)
	if err != nil {
		return nil, "", err
	}

	lines := make(map[uuid.UUID][]ledger.Line)
	for i := range transactions {
		t := &transactions[i]
		lines[t.CustomerID] = append(lines[t.CustomerID], ledger.Line{
			Amount:   t.Amount,
			Payments: t.PaymentAmounts(),
		})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Balances"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Customer", "Phone", "Outstanding", "Should Receive", "You Owe"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, c := range customers {
		outstanding := ledger.Outstanding(lines[c.ID])
		receive := decimal.Zero
		owe := decimal.Zero
		if outstanding.IsPositive() {
			receive = outstanding
		} else if outstanding.IsNegative() {
			owe = outstanding.Abs()
		}

		phone := ""
		if c.Phone != nil {
			phone = *c.Phone
		}

		values := []interface{}{c.Name, phone, ledger.Display(outstanding), ledger.Display(receive), ledger.Display(owe)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("balances_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// TransactionsCSV dumps every transaction with its engine-derived paid and
// remaining figures.
func (s *ReportService) TransactionsCSV(ctx context.Context) ([]byte, string, error) {
	transactions, err := s.txRepo.FindAllWithPayments(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"ID", "Customer ID", "Title", "Type", "Amount", "Paid", "Remaining", "Method", "Created"})
	for i := range transactions {
		t := &transactions[i]
		amounts := t.PaymentAmounts()

		method := ""
		if t.PaymentMethod != nil {
			method = *t.PaymentMethod
		}

		_ = writer.Write([]string{
			t.ID.String(),
			t.CustomerID.String(),
			t.Title,
			t.Type,
			ledger.Display(t.Amount),
			ledger.Display(ledger.PaidTotal(amounts)),
			ledger.Display(ledger.Remaining(t.Amount, amounts)),
			method,
			t.CreatedAt.Format(time.RFC3339),
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

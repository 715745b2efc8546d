package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/daftarapp/daftar-api/internal/models"
)

func TestReportService_CustomerStatementPDF(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	txRepo := &mockTransactionRepo{}
	service := NewReportService(customerRepo, txRepo)

	id := uuid.New()
	customerRepo.mockFindByID = func(ctx context.Context, cid uuid.UUID) (*models.Customer, error) {
		return &models.Customer{ID: cid, Name: "Amira", Phone: strPtr("76123456")}, nil
	}
	txRepo.mockFindByCustomer = func(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
		return []models.Transaction{
			{
				ID:         uuid.New(),
				CustomerID: customerID,
				Title:      "Netflix March",
				Type:       models.TransactionTypeNetflixSubscription,
				Amount:     decimal.NewFromInt(100),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(30)}},
			},
		}, nil
	}

	data, filename, err := service.CustomerStatementPDF(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Contains(t, filename, "statement_")
	assert.Contains(t, filename, ".pdf")
}

func TestReportService_CustomerStatementPDF_NotFound(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	service := NewReportService(customerRepo, &mockTransactionRepo{})

	customerRepo.mockFindByID = func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, _, err := service.CustomerStatementPDF(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportService_BalancesXLSX(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	txRepo := &mockTransactionRepo{}
	service := NewReportService(customerRepo, txRepo)

	customerID := uuid.New()
	customerRepo.mockFindAll = func(ctx context.Context) ([]models.Customer, error) {
		return []models.Customer{{ID: customerID, Name: "Amira"}}, nil
	}
	txRepo.mockFindAllWithPayments = func(ctx context.Context) ([]models.Transaction, error) {
		return []models.Transaction{
			{
				CustomerID: customerID,
				Amount:     decimal.NewFromInt(100),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(40)}},
			},
		}, nil
	}

	data, filename, err := service.BalancesXLSX(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, filename, ".xlsx")
}

func TestReportService_TransactionsCSV(t *testing.T) {
	txRepo := &mockTransactionRepo{}
	service := NewReportService(&mockCustomerRepo{}, txRepo)

	txRepo.mockFindAllWithPayments = func(ctx context.Context) ([]models.Transaction, error) {
		return []models.Transaction{
			{
				ID:         uuid.New(),
				CustomerID: uuid.New(),
				Title:      "Line refill",
				Type:       models.TransactionTypePhonelineCharging,
				Amount:     decimal.NewFromInt(50),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(75)}},
			},
		}, nil
	}

	data, filename, err := service.TransactionsCSV(context.Background())
	require.NoError(t, err)
	assert.Contains(t, filename, ".csv")

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Title", records[0][2])
	assert.Equal(t, "Line refill", records[1][2])
	assert.Equal(t, "75.00", records[1][5])
	assert.Equal(t, "-25.00", records[1][6])
}

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/repository"
)

type mockBalanceRepo struct {
	repository.BalanceRepository
	mockFindByCustomer func(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	mockSnapshot       func(ctx context.Context) ([]models.CustomerBalance, error)
	mockRefresh        func(ctx context.Context) error
}

func (m *mockBalanceRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return m.mockFindByCustomer(ctx, customerID)
}

func (m *mockBalanceRepo) Snapshot(ctx context.Context) ([]models.CustomerBalance, error) {
	return m.mockSnapshot(ctx)
}

func (m *mockBalanceRepo) Refresh(ctx context.Context) error {
	return m.mockRefresh(ctx)
}

func TestDashboardService_Summary_SplitsReceivableAndPayable(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	txRepo := &mockTransactionRepo{}
	service := NewDashboardService(customerRepo, txRepo, &mockBalanceRepo{})

	receivableCustomer := uuid.New()
	payableCustomer := uuid.New()
	settledCustomer := uuid.New()

	customerRepo.mockCount = func(ctx context.Context) (int64, error) { return 3, nil }
	txRepo.mockFindAllWithPayments = func(ctx context.Context) ([]models.Transaction, error) {
		return []models.Transaction{
			// Owes 25.
			{
				CustomerID: receivableCustomer,
				Amount:     decimal.NewFromInt(100),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(75)}},
			},
			// Overpaid by 25.
			{
				CustomerID: payableCustomer,
				Amount:     decimal.NewFromInt(50),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(75)}},
			},
			// Fully settled, counts in neither bucket.
			{
				CustomerID: settledCustomer,
				Amount:     decimal.NewFromInt(30),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(30)}},
			},
		}, nil
	}

	summary, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Customers)
	assert.True(t, summary.TotalReceivable.Equal(decimal.NewFromInt(25)), "receivable = %s", summary.TotalReceivable)
	assert.True(t, summary.TotalPayable.Equal(decimal.NewFromInt(25)), "payable = %s", summary.TotalPayable)
	assert.Equal(t, "25.00", summary.ReceivableDisplay)
	assert.Equal(t, "25.00", summary.PayableDisplay)
}

func TestDashboardService_Summary_Empty(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	txRepo := &mockTransactionRepo{}
	service := NewDashboardService(customerRepo, txRepo, &mockBalanceRepo{})

	customerRepo.mockCount = func(ctx context.Context) (int64, error) { return 0, nil }
	txRepo.mockFindAllWithPayments = func(ctx context.Context) ([]models.Transaction, error) {
		return nil, nil
	}

	summary, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Customers)
	assert.True(t, summary.TotalReceivable.IsZero())
	assert.True(t, summary.TotalPayable.IsZero())
	assert.Equal(t, "0.00", summary.ReceivableDisplay)
}

func TestDashboardService_RefreshBalances(t *testing.T) {
	balanceRepo := &mockBalanceRepo{}
	service := NewDashboardService(&mockCustomerRepo{}, &mockTransactionRepo{}, balanceRepo)

	refreshed := false
	balanceRepo.mockRefresh = func(ctx context.Context) error {
		refreshed = true
		return nil
	}

	err := service.RefreshBalances(context.Background())
	require.NoError(t, err)
	assert.True(t, refreshed)
}

func TestDashboardService_VerifyBalances_MatchingView(t *testing.T) {
	txRepo := &mockTransactionRepo{}
	balanceRepo := &mockBalanceRepo{}
	service := NewDashboardService(&mockCustomerRepo{}, txRepo, balanceRepo)

	customerID := uuid.New()
	txRepo.mockFindAllWithPayments = func(ctx context.Context) ([]models.Transaction, error) {
		return []models.Transaction{
			{
				CustomerID: customerID,
				Amount:     decimal.NewFromInt(100),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(40)}},
			},
		}, nil
	}
	balanceRepo.mockSnapshot = func(ctx context.Context) ([]models.CustomerBalance, error) {
		return []models.CustomerBalance{
			{CustomerID: customerID, Outstanding: decimal.NewFromInt(60)},
		}, nil
	}

	err := service.VerifyBalances(context.Background())
	assert.NoError(t, err)
}

func TestDashboardService_VerifyBalances_StaleRowForDeletedTransactions(t *testing.T) {
	txRepo := &mockTransactionRepo{}
	balanceRepo := &mockBalanceRepo{}
	service := NewDashboardService(&mockCustomerRepo{}, txRepo, balanceRepo)

	// The view still carries a balance for a customer whose transactions
	// were all deleted since the last refresh; verification treats the
	// engine's answer, zero, as truth and only reports.
	txRepo.mockFindAllWithPayments = func(ctx context.Context) ([]models.Transaction, error) {
		return nil, nil
	}
	balanceRepo.mockSnapshot = func(ctx context.Context) ([]models.CustomerBalance, error) {
		return []models.CustomerBalance{
			{CustomerID: uuid.New(), Outstanding: decimal.NewFromInt(10)},
		}, nil
	}

	err := service.VerifyBalances(context.Background())
	assert.NoError(t, err)
}

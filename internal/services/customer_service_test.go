package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/internal/repository"
)

type mockCustomerRepo struct {
	repository.CustomerRepository
	mockFindByID func(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	mockFindAll  func(ctx context.Context) ([]models.Customer, error)
	mockCount    func(ctx context.Context) (int64, error)
	mockCreate   func(ctx context.Context, customer *models.Customer) error
	mockUpdate   func(ctx context.Context, customer *models.Customer) error
	mockDelete   func(ctx context.Context, id uuid.UUID) error
	mockList     func(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error)
}

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockCustomerRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return m.mockList(ctx, query)
}

func (m *mockCustomerRepo) FindAll(ctx context.Context) ([]models.Customer, error) {
	return m.mockFindAll(ctx)
}

func (m *mockCustomerRepo) Count(ctx context.Context) (int64, error) {
	return m.mockCount(ctx)
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	return m.mockCreate(ctx, customer)
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	return m.mockUpdate(ctx, customer)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.mockDelete(ctx, id)
}

type mockTransactionRepo struct {
	repository.TransactionRepository
	mockFindByID            func(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	mockFindByCustomer      func(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error)
	mockFindAllWithPayments func(ctx context.Context) ([]models.Transaction, error)
	mockCreate              func(ctx context.Context, transaction *models.Transaction) error
	mockUpdate              func(ctx context.Context, transaction *models.Transaction) error
	mockDelete              func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockTransactionRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
	return m.mockFindByCustomer(ctx, customerID)
}

func (m *mockTransactionRepo) FindAllWithPayments(ctx context.Context) ([]models.Transaction, error) {
	return m.mockFindAllWithPayments(ctx)
}

func (m *mockTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	return m.mockCreate(ctx, transaction)
}

func (m *mockTransactionRepo) Update(ctx context.Context, transaction *models.Transaction) error {
	return m.mockUpdate(ctx, transaction)
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.mockDelete(ctx, id)
}

// recordingBus captures published events for assertions.
type recordingBus struct {
	events []realtime.Event
}

func (b *recordingBus) Publish(ctx context.Context, event realtime.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe() (<-chan realtime.Event, func()) {
	ch := make(chan realtime.Event)
	return ch, func() {}
}

func (b *recordingBus) Close() error { return nil }

func strPtr(s string) *string { return &s }

func TestCustomerService_Create_PublishesInsert(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	bus := &recordingBus{}
	service := NewCustomerService(customerRepo, nil, nil, bus)

	customerRepo.mockCreate = func(ctx context.Context, customer *models.Customer) error {
		customer.ID = uuid.New()
		return nil
	}

	customer, err := service.Create(context.Background(), CustomerInput{Name: "Amira"})
	require.NoError(t, err)
	assert.Equal(t, "Amira", customer.Name)
	require.Len(t, bus.events, 1)
	assert.Equal(t, "customers", bus.events[0].Table)
	assert.Equal(t, realtime.ActionInsert, bus.events[0].Action)
	assert.Equal(t, customer.ID.String(), bus.events[0].ID)
}

func TestCustomerService_Create_NameTooShort(t *testing.T) {
	service := NewCustomerService(&mockCustomerRepo{}, nil, nil, &recordingBus{})

	_, err := service.Create(context.Background(), CustomerInput{Name: "A"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCustomerService_Create_PhoneTooShort(t *testing.T) {
	service := NewCustomerService(&mockCustomerRepo{}, nil, nil, &recordingBus{})

	_, err := service.Create(context.Background(), CustomerInput{Name: "Amira", Phone: strPtr("123")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCustomerService_Update_BlankPhoneStoredAsNil(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	bus := &recordingBus{}
	service := NewCustomerService(customerRepo, nil, nil, bus)

	id := uuid.New()
	customerRepo.mockFindByID = func(ctx context.Context, cid uuid.UUID) (*models.Customer, error) {
		return &models.Customer{ID: cid, Name: "Amira", Phone: strPtr("76123456")}, nil
	}
	var saved *models.Customer
	customerRepo.mockUpdate = func(ctx context.Context, customer *models.Customer) error {
		saved = customer
		return nil
	}

	_, err := service.Update(context.Background(), id, CustomerInput{Name: "Amira", Phone: strPtr("")})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Nil(t, saved.Phone)
}

func TestCustomerService_Update_NotFound(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	service := NewCustomerService(customerRepo, nil, nil, &recordingBus{})

	customerRepo.mockFindByID = func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := service.Update(context.Background(), uuid.New(), CustomerInput{Name: "Amira"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerService_List_AttachesCachedBalances(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	balanceRepo := &mockBalanceRepo{}
	service := NewCustomerService(customerRepo, nil, balanceRepo, &recordingBus{})

	owing := uuid.New()
	overpaid := uuid.New()
	customerRepo.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
		return []models.Customer{
			{ID: owing, Name: "Amira"},
			{ID: overpaid, Name: "Walid"},
		}, 2, nil
	}
	balanceRepo.mockFindByCustomer = func(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
		if customerID == owing {
			return decimal.NewFromInt(25), nil
		}
		return decimal.NewFromInt(-10), nil
	}

	items, total, err := service.List(context.Background(), repository.NewListQuery())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.True(t, items[0].Outstanding.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "25.00", items[0].OutstandingDisplay)
	assert.True(t, items[1].Outstanding.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, "-10.00", items[1].OutstandingDisplay)
}

func TestCustomerService_List_BalanceReadFailureDegradesToZero(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	balanceRepo := &mockBalanceRepo{}
	service := NewCustomerService(customerRepo, nil, balanceRepo, &recordingBus{})

	customerRepo.mockList = func(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
		return []models.Customer{{ID: uuid.New(), Name: "Amira"}}, 1, nil
	}
	balanceRepo.mockFindByCustomer = func(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
		return decimal.Zero, gorm.ErrInvalidDB
	}

	// The view is a cache; a failed read zeroes the row, it never fails
	// the page.
	items, _, err := service.List(context.Background(), repository.NewListQuery())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Outstanding.IsZero())
	assert.Equal(t, "0.00", items[0].OutstandingDisplay)
}

func TestCustomerService_Detail_DerivesBalances(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	txRepo := &mockTransactionRepo{}
	service := NewCustomerService(customerRepo, txRepo, nil, &recordingBus{})

	id := uuid.New()
	customerRepo.mockFindByID = func(ctx context.Context, cid uuid.UUID) (*models.Customer, error) {
		return &models.Customer{ID: cid, Name: "Amira"}, nil
	}
	txRepo.mockFindByCustomer = func(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
		return []models.Transaction{
			{
				ID:         uuid.New(),
				CustomerID: customerID,
				Title:      "Netflix March",
				Type:       models.TransactionTypeNetflixSubscription,
				Amount:     decimal.NewFromInt(100),
				Payments: []models.Payment{
					{Amount: decimal.NewFromInt(30)},
					{Amount: decimal.NewFromInt(20)},
				},
			},
			{
				ID:         uuid.New(),
				CustomerID: customerID,
				Title:      "Line refill",
				Type:       models.TransactionTypePhonelineCharging,
				Amount:     decimal.NewFromInt(50),
				Payments: []models.Payment{
					{Amount: decimal.NewFromInt(75)},
				},
			},
		}, nil
	}

	detail, err := service.Detail(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, detail.Outstanding.Equal(decimal.NewFromInt(25)), "outstanding = %s", detail.Outstanding)
	assert.Equal(t, "25.00", detail.ShouldReceive)
	assert.Equal(t, "0.00", detail.YouOwe)
	require.Len(t, detail.Transactions, 2)
	assert.True(t, detail.Transactions[0].Remaining.Equal(decimal.NewFromInt(50)))
	assert.True(t, detail.Transactions[1].Remaining.Equal(decimal.NewFromInt(-25)))
}

func TestCustomerService_Detail_OverpaidCustomerShowsYouOwe(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	txRepo := &mockTransactionRepo{}
	service := NewCustomerService(customerRepo, txRepo, nil, &recordingBus{})

	customerRepo.mockFindByID = func(ctx context.Context, cid uuid.UUID) (*models.Customer, error) {
		return &models.Customer{ID: cid, Name: "Walid"}, nil
	}
	txRepo.mockFindByCustomer = func(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
		return []models.Transaction{
			{
				ID:         uuid.New(),
				CustomerID: customerID,
				Title:      "Shahid annual",
				Type:       models.TransactionTypeShahidSubscription,
				Amount:     decimal.NewFromInt(50),
				Payments:   []models.Payment{{Amount: decimal.NewFromInt(75)}},
			},
		}, nil
	}

	detail, err := service.Detail(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, detail.Outstanding.Equal(decimal.NewFromInt(-25)))
	assert.Equal(t, "0.00", detail.ShouldReceive)
	assert.Equal(t, "25.00", detail.YouOwe)
}

func TestCustomerService_Detail_NotFound(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	service := NewCustomerService(customerRepo, &mockTransactionRepo{}, nil, &recordingBus{})

	customerRepo.mockFindByID = func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := service.Detail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerService_Delete_PublishesDelete(t *testing.T) {
	customerRepo := &mockCustomerRepo{}
	bus := &recordingBus{}
	service := NewCustomerService(customerRepo, nil, nil, bus)

	id := uuid.New()
	customerRepo.mockFindByID = func(ctx context.Context, cid uuid.UUID) (*models.Customer, error) {
		return &models.Customer{ID: cid, Name: "Amira"}, nil
	}
	customerRepo.mockDelete = func(ctx context.Context, cid uuid.UUID) error {
		assert.Equal(t, id, cid)
		return nil
	}

	err := service.Delete(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, bus.events, 1)
	assert.Equal(t, realtime.ActionDelete, bus.events[0].Action)
}

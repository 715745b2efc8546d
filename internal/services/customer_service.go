package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daftarapp/daftar-api/internal/ledger"
	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/internal/repository"
	"github.com/daftarapp/daftar-api/pkg/logger"
)

// CustomerService handles customer CRUD and balance derivation
type CustomerService struct {
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	balanceRepo  repository.BalanceRepository
	bus          realtime.Bus
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, txRepo repository.TransactionRepository, balanceRepo repository.BalanceRepository, bus realtime.Bus) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		txRepo:       txRepo,
		balanceRepo:  balanceRepo,
		bus:          bus,
	}
}

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name  string
	Phone *string
}

func (in *CustomerInput) validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", ErrValidation)
	}
	if in.Phone != nil && *in.Phone != "" && len(*in.Phone) < 5 {
		return fmt.Errorf("%w: phone must be at least 5 characters", ErrValidation)
	}
	// Blank phone is stored as NULL, matching the edit form's behavior.
	if in.Phone != nil && *in.Phone == "" {
		in.Phone = nil
	}
	return nil
}

// CustomerDetail is a customer together with its engine-derived balances.
type CustomerDetail struct {
	Customer     models.CustomerResponse      `json:"customer"`
	Transactions []models.TransactionResponse `json:"transactions"`
	Outstanding  decimal.Decimal              `json:"outstanding"`
	// Presentation split of outstanding: what the business should still
	// receive from this customer, and what it owes them. One of the two is
	// always zero.
	ShouldReceive string `json:"should_receive"`
	YouOwe        string `json:"you_owe"`
}

// CustomerListItem is one row of the customer list: the customer plus its
// cached outstanding balance.
type CustomerListItem struct {
	models.CustomerResponse
	Outstanding        decimal.Decimal `json:"outstanding"`
	OutstandingDisplay string          `json:"outstanding_display"`
}

// List returns a page of customers with their cached outstanding balances.
// Balances come from the customer_balances view, not the engine; the list
// screen tolerates a few minutes of staleness, the detail screen does not.
func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]CustomerListItem, int64, error) {
	customers, total, err := s.customerRepo.List(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	items := make([]CustomerListItem, 0, len(customers))
	for i := range customers {
		outstanding, err := s.balanceRepo.FindByCustomer(ctx, customers[i].ID)
		if err != nil {
			// A failed cache read degrades the row to zero instead of
			// failing the page.
			logger.Warn("Cached balance read failed", "customer_id", customers[i].ID.String(), "error", err)
			outstanding = decimal.Zero
		}
		items = append(items, CustomerListItem{
			CustomerResponse:   customers[i].ToResponse(),
			Outstanding:        outstanding,
			OutstandingDisplay: ledger.Display(outstanding),
		})
	}
	return items, total, nil
}

// FindAll returns every customer, for select widgets.
func (s *CustomerService) FindAll(ctx context.Context) ([]models.Customer, error) {
	return s.customerRepo.FindAll(ctx)
}

// Detail loads one customer and derives its balances from the current
// transaction and payment rows.
func (s *CustomerService) Detail(ctx context.Context, id uuid.UUID) (*CustomerDetail, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	transactions, err := s.txRepo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]ledger.Line, 0, len(transactions))
	responses := make([]models.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		lines = append(lines, ledger.Line{
			Amount:   transactions[i].Amount,
			Payments: transactions[i].PaymentAmounts(),
		})
		responses = append(responses, transactions[i].ToResponse())
	}

	outstanding := ledger.Outstanding(lines)
	receive := decimal.Zero
	owe := decimal.Zero
	if outstanding.IsPositive() {
		receive = outstanding
	} else if outstanding.IsNegative() {
		owe = outstanding.Abs()
	}

	return &CustomerDetail{
		Customer:      customer.ToResponse(),
		Transactions:  responses,
		Outstanding:   outstanding,
		ShouldReceive: ledger.Display(receive),
		YouOwe:        ledger.Display(owe),
	}, nil
}

// Create adds a customer and announces the change.
func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:  input.Name,
		Phone: input.Phone,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.ActionInsert, customer.ID)
	return customer, nil
}

// Update edits a customer's name and phone.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*models.Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	customer.Name = input.Name
	customer.Phone = input.Phone
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.ActionUpdate, customer.ID)
	return customer, nil
}

// Delete removes a customer; the store cascades to its transactions and
// their payments.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, realtime.ActionDelete, id)
	return nil
}

// publish announces a change; a failed announcement never fails the
// mutation, clients simply miss one refresh hint.
func (s *CustomerService) publish(ctx context.Context, action string, id uuid.UUID) {
	ev := realtime.Event{Table: models.Customer{}.TableName(), Action: action, ID: id.String()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to publish change event", "table", ev.Table, "error", err)
	}
}

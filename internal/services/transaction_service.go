package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/internal/repository"
	"github.com/daftarapp/daftar-api/pkg/logger"
)

// TransactionService handles transaction CRUD
type TransactionService struct {
	txRepo       repository.TransactionRepository
	customerRepo repository.CustomerRepository
	bus          realtime.Bus
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txRepo repository.TransactionRepository, customerRepo repository.CustomerRepository, bus realtime.Bus) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		customerRepo: customerRepo,
		bus:          bus,
	}
}

// TransactionInput carries the fields accepted at creation time.
type TransactionInput struct {
	CustomerID    uuid.UUID
	Title         string
	Description   *string
	Type          string
	Amount        decimal.Decimal
	PaymentMethod *string
}

func (in *TransactionInput) validate() error {
	if len(strings.TrimSpace(in.Title)) < 2 {
		return fmt.Errorf("%w: title must be at least 2 characters", ErrValidation)
	}
	if !models.IsValidTransactionType(in.Type) {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, in.Type)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.PaymentMethod != nil && *in.PaymentMethod != "" && !models.IsValidPaymentMethod(*in.PaymentMethod) {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, *in.PaymentMethod)
	}
	if in.PaymentMethod != nil && *in.PaymentMethod == "" {
		in.PaymentMethod = nil
	}
	return nil
}

// TransactionUpdateInput carries the fields that stay editable after
// creation: only title and amount.
type TransactionUpdateInput struct {
	Title  string
	Amount decimal.Decimal
}

// List returns a page of transactions with customer and payments attached.
func (s *TransactionService) List(ctx context.Context, query *repository.ListQuery) ([]models.Transaction, int64, error) {
	return s.txRepo.List(ctx, query)
}

// Recent returns the latest transactions for the payment form picker.
func (s *TransactionService) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	return s.txRepo.FindRecent(ctx, limit)
}

// FindByID loads a transaction with its customer and payments.
func (s *TransactionService) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// Create adds a transaction under a customer and announces the change.
func (s *TransactionService) Create(ctx context.Context, input TransactionInput) (*models.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer does not exist", ErrValidation)
		}
		return nil, err
	}

	transaction := &models.Transaction{
		CustomerID:    input.CustomerID,
		Title:         input.Title,
		Description:   input.Description,
		Type:          input.Type,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
	}
	if err := s.txRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.ActionInsert, transaction.ID)
	return transaction, nil
}

// Update edits a transaction's title and amount. Amount edits are allowed
// even after payments exist; balances are recomputed from rows on every
// read so nothing else needs to change.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, input TransactionUpdateInput) (*models.Transaction, error) {
	if len(strings.TrimSpace(input.Title)) < 2 {
		return nil, fmt.Errorf("%w: title must be at least 2 characters", ErrValidation)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	transaction, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	transaction.Title = input.Title
	transaction.Amount = input.Amount
	if err := s.txRepo.Update(ctx, transaction); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.ActionUpdate, transaction.ID)
	return transaction, nil
}

// Delete removes a transaction; its payments cascade.
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.txRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.txRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, realtime.ActionDelete, id)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, action string, id uuid.UUID) {
	ev := realtime.Event{Table: models.Transaction{}.TableName(), Action: action, ID: id.String()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to publish change event", "table", ev.Table, "error", err)
	}
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daftarapp/daftar-api/internal/ledger"
	"github.com/daftarapp/daftar-api/internal/models"
	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/internal/repository"
	"github.com/daftarapp/daftar-api/pkg/logger"
)

// PaymentService handles payment CRUD
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	txRepo      repository.TransactionRepository
	bus         realtime.Bus
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, txRepo repository.TransactionRepository, bus realtime.Bus) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		txRepo:      txRepo,
		bus:         bus,
	}
}

// PaymentInput carries the fields accepted at creation time.
type PaymentInput struct {
	TransactionID uuid.UUID
	Amount        decimal.Decimal
	Method        string
	Note          *string
}

func (in *PaymentInput) validate() error {
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !models.IsValidPaymentMethod(in.Method) {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, in.Method)
	}
	return nil
}

// List returns a page of payments with their transactions attached.
func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(ctx, query)
}

// FindByID loads one payment with its transaction.
func (s *PaymentService) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// Create applies a payment against a transaction and announces the change.
// The sum of payments is deliberately not capped at the transaction amount:
// overpayment is accepted and surfaces as a negative remaining balance.
func (s *PaymentService) Create(ctx context.Context, input PaymentInput) (*models.Payment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	transaction, err := s.txRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction does not exist", ErrValidation)
		}
		return nil, err
	}

	// Flag overpayment in the log, but let it through.
	existing, err := s.paymentRepo.FindByTransaction(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	amounts := make([]decimal.Decimal, 0, len(existing))
	for _, p := range existing {
		amounts = append(amounts, p.Amount)
	}
	if remaining := ledger.Remaining(transaction.Amount, amounts); input.Amount.GreaterThan(remaining) {
		logger.Info("Payment exceeds remaining balance",
			"transaction_id", input.TransactionID.String(),
			"remaining", remaining.String(),
			"amount", input.Amount.String())
	}

	payment := &models.Payment{
		TransactionID: input.TransactionID,
		Amount:        input.Amount,
		Method:        input.Method,
		Note:          input.Note,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.ActionInsert, payment.ID)
	return payment, nil
}

// Update edits a payment's amount, the only field editable after creation.
func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	payment.Amount = amount
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.ActionUpdate, payment.ID)
	return payment, nil
}

// Delete removes a payment.
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.paymentRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, realtime.ActionDelete, id)
	return nil
}

func (s *PaymentService) publish(ctx context.Context, action string, id uuid.UUID) {
	ev := realtime.Event{Table: models.Payment{}.TableName(), Action: action, ID: id.String()}
	if err := s.bus.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to publish change event", "table", ev.Table, "error", err)
	}
}

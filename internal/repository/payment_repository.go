package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/daftarapp/daftar-api/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

// Columns the client may sort payments by; anything else falls back to
// newest first.
var paymentSortColumns = map[string]bool{
	"amount":     true,
	"method":     true,
	"created_at": true,
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Transaction").
		First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id).Error
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if query.Search != "" {
		db = db.Where("note ILIKE ?", "%"+query.Search+"%")
	}
	if m := query.Filters["method"]; m != "" {
		db = db.Where("method = ?", m)
	}
	if t := query.Filters["transaction_id"]; t != "" {
		db = db.Where("transaction_id = ?", t)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(query.OrderClause(paymentSortColumns, "created_at DESC"))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Preload("Transaction").Find(&payments).Error
	return payments, total, err
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/daftarapp/daftar-api/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error)
	FindAllWithPayments(ctx context.Context) ([]models.Transaction, error)
	FindRecent(ctx context.Context, limit int) ([]models.Transaction, error)
	Create(ctx context.Context, transaction *models.Transaction) error
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error)
}

// Columns the client may sort transactions by; anything else falls back to
// newest first.
var transactionSortColumns = map[string]bool{
	"title":          true,
	"type":           true,
	"amount":         true,
	"payment_method": true,
	"created_at":     true,
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// FindByID loads a transaction with its customer and payments, newest
// payment first.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payments.created_at DESC")
		}).
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// FindByCustomer returns a customer's transactions with payments preloaded,
// newest first. This is the row snapshot the ledger engine derives balances
// from.
func (r *transactionRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

// FindAllWithPayments returns every transaction with payments preloaded,
// for portfolio-wide aggregation and the balance consistency check.
func (r *transactionRepository) FindAllWithPayments(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Find(&transactions).Error
	return transactions, err
}

// FindRecent returns the most recent transactions, for the payment form's
// transaction picker.
func (r *transactionRepository) FindRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

// Delete removes the transaction; its payments cascade at the database
// level.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepository) List(ctx context.Context, query *ListQuery) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Transaction{})

	if query.Search != "" {
		db = db.Where("title ILIKE ?", "%"+query.Search+"%")
	}
	if t := query.Filters["type"]; t != "" {
		db = db.Where("type = ?", t)
	}
	if m := query.Filters["payment_method"]; m != "" {
		db = db.Where("payment_method = ?", m)
	}
	if c := query.Filters["customer_id"]; c != "" {
		db = db.Where("customer_id = ?", c)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(query.OrderClause(transactionSortColumns, "created_at DESC"))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Preload("Customer").Preload("Payments").Find(&transactions).Error
	return transactions, total, err
}

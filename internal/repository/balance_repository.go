package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/daftarapp/daftar-api/internal/models"

	"gorm.io/gorm"
)

// BalanceRepository reads and maintains the customer_balances materialized
// view. The view is a cache of engine-computed figures, never the source of
// truth; Refresh rebuilds it and Snapshot feeds the consistency check.
type BalanceRepository interface {
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	Snapshot(ctx context.Context) ([]models.CustomerBalance, error)
	Refresh(ctx context.Context) error
}

type balanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

// FindByCustomer returns the cached outstanding balance for one customer.
// A customer missing from the view (created after the last refresh) reads
// as zero.
func (r *balanceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var balance models.CustomerBalance
	err := r.db.WithContext(ctx).
		First(&balance, "customer_id = ?", customerID).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Outstanding, nil
}

// Snapshot returns every cached balance row.
func (r *balanceRepository) Snapshot(ctx context.Context) ([]models.CustomerBalance, error) {
	var balances []models.CustomerBalance
	err := r.db.WithContext(ctx).Find(&balances).Error
	return balances, err
}

// Refresh rebuilds the materialized view. CONCURRENTLY keeps readers
// unblocked; the unique index on customer_id makes that possible.
func (r *balanceRepository) Refresh(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Exec("REFRESH MATERIALIZED VIEW CONCURRENTLY customer_balances").Error
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/daftarapp/daftar-api/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindAll(ctx context.Context) ([]models.Customer, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query *ListQuery) ([]models.Customer, int64, error)
}

// Columns the client may sort customers by; anything else falls back to
// newest first.
var customerSortColumns = map[string]bool{
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindAll returns every customer ordered by name, for select widgets.
func (r *customerRepository) FindAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete removes the customer; transactions and their payments cascade at
// the database level.
func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, query *ListQuery) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Customer{})

	if query.Search != "" {
		db = db.Where("name ILIKE ?", "%"+query.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order(query.OrderClause(customerSortColumns, "created_at DESC"))

	if query.PerPage > 0 {
		db = db.Offset(query.Offset()).Limit(query.PerPage)
	}

	err := db.Find(&customers).Error
	return customers, total, err
}

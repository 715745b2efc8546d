package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a person the business keeps a running account for.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Transactions []Transaction `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns a UUID when the application generates the row id
// instead of the database default.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CustomerResponse is the JSON response format for customers
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts Customer to CustomerResponse
func (c *Customer) ToResponse() CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// CustomerBalance is one row of the customer_balances materialized view,
// a cached copy of the engine-computed outstanding balance.
type CustomerBalance struct {
	CustomerID  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"customer_id"`
	Outstanding decimal.Decimal `gorm:"type:numeric(14,2)" json:"outstanding"`
}

// TableName specifies the view name for CustomerBalance
func (CustomerBalance) TableName() string {
	return "customer_balances"
}

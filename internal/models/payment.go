package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment represents funds applied against a transaction's amount. The sum
// of payments is not capped by the transaction amount; overpaying flips the
// remaining balance negative and that is accepted business behavior.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method        string          `gorm:"not null" json:"method"`
	Note          *string         `json:"note"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate assigns a UUID when the application generates the row id.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Payment method constants
const (
	PaymentMethodWhish = "whish"
	PaymentMethodCash  = "cash"
)

// PaymentMethods lists every valid payment method.
func PaymentMethods() []string {
	return []string{PaymentMethodWhish, PaymentMethodCash}
}

// IsValidPaymentMethod reports whether m is a known payment method.
func IsValidPaymentMethod(m string) bool {
	return m == PaymentMethodWhish || m == PaymentMethodCash
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	TransactionID    uuid.UUID       `json:"transaction_id"`
	TransactionTitle string          `json:"transaction_title,omitempty"`
	CustomerID       uuid.UUID       `json:"customer_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	Note             *string         `json:"note"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Method:        p.Method,
		Note:          p.Note,
		CreatedAt:     p.CreatedAt,
	}

	if p.Transaction.ID != uuid.Nil {
		resp.TransactionTitle = p.Transaction.Title
		resp.CustomerID = p.Transaction.CustomerID
	}

	return resp
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/daftarapp/daftar-api/internal/ledger"
)

// Transaction is a single charge owed by or to a customer. Payments are
// applied against it until (or past — overpayment is allowed) its amount.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   *string         `json:"description"`
	Type          string          `gorm:"not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentMethod *string         `json:"payment_method"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Customer Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Payments []Payment `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate assigns a UUID when the application generates the row id.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Transaction type constants
const (
	TransactionTypePhonelineCharging   = "phoneline_charging"
	TransactionTypePhonelinePayment    = "phoneline_payment"
	TransactionTypeShahidSubscription  = "shahid_subscription"
	TransactionTypeNetflixSubscription = "netflix_subscription"
)

// TransactionTypes lists every valid transaction type.
func TransactionTypes() []string {
	return []string{
		TransactionTypePhonelineCharging,
		TransactionTypePhonelinePayment,
		TransactionTypeShahidSubscription,
		TransactionTypeNetflixSubscription,
	}
}

// IsValidTransactionType reports whether t is a known transaction type.
func IsValidTransactionType(t string) bool {
	for _, v := range TransactionTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// PaymentAmounts returns the amounts of the preloaded payments.
func (t *Transaction) PaymentAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(t.Payments))
	for _, p := range t.Payments {
		amounts = append(amounts, p.Amount)
	}
	return amounts
}

// TransactionResponse is the JSON response format for transactions. Paid and
// Remaining are engine-derived from the payments loaded with the row.
type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod *string         `json:"payment_method"`
	Paid          decimal.Decimal `json:"paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToResponse converts Transaction to TransactionResponse. It assumes the
// Payments association was preloaded; with no payments loaded the figures
// degrade to paid=0, remaining=amount, which is also correct for a
// transaction that has none.
func (t *Transaction) ToResponse() TransactionResponse {
	amounts := t.PaymentAmounts()

	resp := TransactionResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		Title:         t.Title,
		Description:   t.Description,
		Type:          t.Type,
		Amount:        t.Amount,
		PaymentMethod: t.PaymentMethod,
		Paid:          ledger.PaidTotal(amounts),
		Remaining:     ledger.Remaining(t.Amount, amounts),
		CreatedAt:     t.CreatedAt,
	}

	if t.Customer.ID != uuid.Nil {
		resp.CustomerName = t.Customer.Name
	}

	return resp
}

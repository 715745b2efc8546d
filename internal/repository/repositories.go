package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Customer     CustomerRepository
	Transaction  TransactionRepository
	Payment      PaymentRepository
	Balance      BalanceRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Customer:     NewCustomerRepository(db),
		Transaction:  NewTransactionRepository(db),
		Payment:      NewPaymentRepository(db),
		Balance:      NewBalanceRepository(db),
	}
}

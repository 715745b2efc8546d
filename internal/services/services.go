package services

import (
	"github.com/daftarapp/daftar-api/internal/config"
	"github.com/daftarapp/daftar-api/internal/jobs"
	"github.com/daftarapp/daftar-api/internal/realtime"
	"github.com/daftarapp/daftar-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth        *AuthService
	Customer    *CustomerService
	Transaction *TransactionService
	Payment     *PaymentService
	Dashboard   *DashboardService
	Report      *ReportService
	Job         *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, bus realtime.Bus, worker *jobs.Worker, cfg *config.Config) *Services {
	return &Services{
		Auth:        NewAuthService(repos.User, repos.RefreshToken, cfg),
		Customer:    NewCustomerService(repos.Customer, repos.Transaction, repos.Balance, bus),
		Transaction: NewTransactionService(repos.Transaction, repos.Customer, bus),
		Payment:     NewPaymentService(repos.Payment, repos.Transaction, bus),
		Dashboard:   NewDashboardService(repos.Customer, repos.Transaction, repos.Balance),
		Report:      NewReportService(repos.Customer, repos.Transaction),
		Job:         NewJobService(worker),
	}
}

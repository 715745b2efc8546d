package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/daftarapp/daftar-api/internal/ledger"
	"github.com/daftarapp/daftar-api/internal/repository"
	"github.com/daftarapp/daftar-api/pkg/logger"
	"github.com/daftarapp/daftar-api/pkg/metrics"
)

// DashboardService aggregates portfolio-wide figures and keeps the cached
// balance view honest.
type DashboardService struct {
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
	balanceRepo  repository.BalanceRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(customerRepo repository.CustomerRepository, txRepo repository.TransactionRepository, balanceRepo repository.BalanceRepository) *DashboardService {
	return &DashboardService{
		customerRepo: customerRepo,
		txRepo:       txRepo,
		balanceRepo:  balanceRepo,
	}
}

// DashboardSummary is the portfolio overview.
type DashboardSummary struct {
	Customers       int64           `json:"customers"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
	// Display figures rounded to two fraction digits.
	ReceivableDisplay string `json:"receivable_display"`
	PayableDisplay    string `json:"payable_display"`
}

// Summary recomputes the portfolio totals from the current transaction and
// payment rows.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	count, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.outstandingPerCustomer(ctx)
	if err != nil {
		return nil, err
	}

	values := make([]decimal.Decimal, 0, len(outstanding))
	for _, v := range outstanding {
		values = append(values, v)
	}

	receivable, payable := ledger.PortfolioTotals(values)
	return &DashboardSummary{
		Customers:         count,
		TotalReceivable:   receivable,
		TotalPayable:      payable,
		ReceivableDisplay: ledger.Display(receivable),
		PayableDisplay:    ledger.Display(payable),
	}, nil
}

// RefreshBalances rebuilds the customer_balances materialized view.
func (s *DashboardService) RefreshBalances(ctx context.Context) error {
	if err := s.balanceRepo.Refresh(ctx); err != nil {
		return err
	}
	metrics.CountBalanceRefresh()
	return nil
}

// VerifyBalances recomputes every customer's outstanding balance with the
// ledger engine and compares it to the cached view. Divergence means the
// view lagged a write or the view query drifted from the engine; either way
// it is logged and counted, never silently corrected from the cache side.
func (s *DashboardService) VerifyBalances(ctx context.Context) error {
	cached, err := s.balanceRepo.Snapshot(ctx)
	if err != nil {
		return err
	}

	recomputed, err := s.outstandingPerCustomer(ctx)
	if err != nil {
		return err
	}

	for _, row := range cached {
		want, ok := recomputed[row.CustomerID]
		if !ok {
			// No transactions: the engine says zero.
			want = decimal.Zero
		}
		if !row.Outstanding.Equal(want) {
			metrics.CountBalanceDivergence()
			logger.Warn("Cached balance diverges from ledger",
				"customer_id", row.CustomerID,
				"cached", row.Outstanding,
				"recomputed", want,
			)
		}
	}
	return nil
}

// outstandingPerCustomer groups all transactions by customer and folds each
// group through the engine.
func (s *DashboardService) outstandingPerCustomer(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	transactions, err := s.txRepo.FindAllWithPayments(ctx)
	if err != nil {
		return nil, err
	}

	lines := make(map[uuid.UUID][]ledger.Line)
	for i := range transactions {
		t := &transactions[i]
		lines[t.CustomerID] = append(lines[t.CustomerID], ledger.Line{
			Amount:   t.Amount,
			Payments: t.PaymentAmounts(),
		})
	}

	outstanding := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for customerID, customerLines := range lines {
		outstanding[customerID] = ledger.Outstanding(customerLines)
	}
	return outstanding, nil
}

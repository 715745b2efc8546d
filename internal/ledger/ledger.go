// Package ledger is the balance engine: pure arithmetic over transaction
// amounts and payment rows. It holds no state and performs no I/O; callers
// hand it a row snapshot and every figure is derived fresh. Overpayment is
// legal and yields a negative remaining balance.
package ledger

import "github.com/shopspring/decimal"

// Sign of an outstanding balance, as returned by decimal's Sign.
const (
	// SignShouldReceive marks a balance the business is still owed.
	SignShouldReceive = 1
	// SignShouldPay marks a balance the business owes the customer.
	SignShouldPay = -1
)

// DisplayPlaces is the number of fraction digits shown to users.
const DisplayPlaces = 2

// Line is one transaction's amount together with the payments applied
// against it.
type Line struct {
	Amount   decimal.Decimal
	Payments []decimal.Decimal
}

// PaidTotal sums the payments applied against a transaction.
func PaidTotal(payments []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p)
	}
	return total
}

// Remaining is the transaction amount minus everything paid against it. It
// is deliberately not clamped at zero: paying more than the amount flips the
// balance negative, meaning the business owes the customer.
func Remaining(amount decimal.Decimal, payments []decimal.Decimal) decimal.Decimal {
	return amount.Sub(PaidTotal(payments))
}

// Outstanding folds a customer's lines into one figure: the sum of every
// line's remaining balance. Positive means the customer still owes the
// business, negative means the business owes the customer.
func Outstanding(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(Remaining(l.Amount, l.Payments))
	}
	return total
}

// PortfolioTotals buckets per-customer outstanding balances into what the
// business should receive (sum of positive balances) and what it should pay
// out (absolute sum of negative balances). Settled customers land in
// neither bucket.
func PortfolioTotals(outstanding []decimal.Decimal) (receivable, payable decimal.Decimal) {
	receivable = decimal.Zero
	payable = decimal.Zero
	for _, o := range outstanding {
		switch o.Sign() {
		case SignShouldReceive:
			receivable = receivable.Add(o)
		case SignShouldPay:
			payable = payable.Add(o.Abs())
		}
	}
	return receivable, payable
}

// Display renders a figure with two fraction digits, rounding half away
// from zero.
func Display(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

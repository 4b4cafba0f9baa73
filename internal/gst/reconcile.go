package gst

import "github.com/shopspring/decimal"

// Invoice payment status values.
const (
	StatusDue           = "due"
	StatusPartiallyPaid = "partially_paid"
	StatusPaid          = "paid"
)

// Epsilon absorbs rounding noise when comparing accumulated payments against
// the invoice total (0.01 currency units).
var Epsilon = decimal.NewFromFloat(0.01)

// ReconcileStatus decides the invoice status from its grand total and the sum
// of all recorded payments:
//
//	totalPaid >= totalAmount - epsilon  => paid
//	totalPaid >  epsilon                => partially_paid
//	otherwise                           => due
//
// Overpayment is deliberately accepted: the invoice simply becomes paid.
func ReconcileStatus(totalAmount, totalPaid decimal.Decimal) string {
	if totalPaid.GreaterThanOrEqual(totalAmount.Sub(Epsilon)) {
		return StatusPaid
	}
	if totalPaid.GreaterThan(Epsilon) {
		return StatusPartiallyPaid
	}
	return StatusDue
}

// OutstandingBalance returns totalAmount - totalPaid, clamped to zero once
// the remainder is within epsilon (avoids showing dust or negative balances
// on overpaid invoices).
func OutstandingBalance(totalAmount, totalPaid decimal.Decimal) decimal.Decimal {
	balance := totalAmount.Sub(totalPaid)
	if balance.LessThanOrEqual(Epsilon) {
		return decimal.Zero
	}
	return balance
}

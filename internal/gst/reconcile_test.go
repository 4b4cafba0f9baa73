package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileStatus(t *testing.T) {
	tests := []struct {
		name        string
		totalAmount string
		totalPaid   string
		want        string
	}{
		{name: "no payments", totalAmount: "1000", totalPaid: "0", want: StatusDue},
		{name: "dust payment below epsilon", totalAmount: "1000", totalPaid: "0.01", want: StatusDue},
		{name: "just above epsilon", totalAmount: "1000", totalPaid: "0.02", want: StatusPartiallyPaid},
		{name: "partial payment", totalAmount: "1000", totalPaid: "400", want: StatusPartiallyPaid},
		{name: "exact payment", totalAmount: "1000", totalPaid: "1000", want: StatusPaid},
		{name: "within epsilon of total", totalAmount: "500", totalPaid: "499.995", want: StatusPaid},
		{name: "overpayment", totalAmount: "100", totalPaid: "150", want: StatusPaid},
		{name: "zero total invoice", totalAmount: "0", totalPaid: "0", want: StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconcileStatus(dec(tt.totalAmount), dec(tt.totalPaid))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcileStatusSequence(t *testing.T) {
	total := dec("1000")

	paid := dec("400")
	assert.Equal(t, StatusPartiallyPaid, ReconcileStatus(total, paid))

	paid = paid.Add(dec("600"))
	assert.Equal(t, StatusPaid, ReconcileStatus(total, paid))
}

func TestOutstandingBalance(t *testing.T) {
	tests := []struct {
		name        string
		totalAmount string
		totalPaid   string
		want        string
	}{
		{name: "nothing paid", totalAmount: "1000", totalPaid: "0", want: "1000.00"},
		{name: "partial", totalAmount: "1000", totalPaid: "400", want: "600.00"},
		{name: "exact", totalAmount: "1000", totalPaid: "1000", want: "0.00"},
		{name: "dust remainder clamps to zero", totalAmount: "500", totalPaid: "499.995", want: "0.00"},
		{name: "overpaid clamps to zero", totalAmount: "100", totalPaid: "150", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutstandingBalance(dec(tt.totalAmount), dec(tt.totalPaid))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(name string, qty int64, price, discount, gstRate string) LineItem {
	return LineItem{
		Name:            name,
		Quantity:        qty,
		UnitPrice:       dec(price),
		DiscountPercent: dec(discount),
		GSTRatePercent:  dec(gstRate),
	}
}

func TestComputeInvoiceTotalsIntraState(t *testing.T) {
	totals, err := ComputeInvoiceTotals([]LineItem{
		item("Widget", 2, "100", "0", "18"),
	}, true, TaxModeIntraState)
	require.NoError(t, err)
	require.Len(t, totals.Items, 1)

	got := totals.Items[0]
	assert.Equal(t, "200.00", got.TaxableValue.StringFixed(2))
	assert.Equal(t, "9.00", got.CGSTRate.StringFixed(2))
	assert.Equal(t, "9.00", got.SGSTRate.StringFixed(2))
	assert.Equal(t, "0.00", got.IGSTRate.StringFixed(2))
	assert.Equal(t, "36.00", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "236.00", got.LineTotal.StringFixed(2))

	assert.Equal(t, "200.00", totals.SubTotal.StringFixed(2))
	assert.Equal(t, "18.00", totals.TotalCGST.StringFixed(2))
	assert.Equal(t, "18.00", totals.TotalSGST.StringFixed(2))
	assert.Equal(t, "0.00", totals.TotalIGST.StringFixed(2))
	assert.Equal(t, "36.00", totals.TotalTaxAmount.StringFixed(2))
	assert.Equal(t, "236.00", totals.TotalAmount.StringFixed(2))
}

func TestComputeInvoiceTotalsInterState(t *testing.T) {
	totals, err := ComputeInvoiceTotals([]LineItem{
		item("Widget", 2, "100", "0", "18"),
	}, true, TaxModeInterState)
	require.NoError(t, err)

	got := totals.Items[0]
	assert.Equal(t, "0.00", got.CGSTRate.StringFixed(2))
	assert.Equal(t, "0.00", got.SGSTRate.StringFixed(2))
	assert.Equal(t, "18.00", got.IGSTRate.StringFixed(2))
	assert.Equal(t, "36.00", got.TaxAmount.StringFixed(2))

	assert.Equal(t, "0.00", totals.TotalCGST.StringFixed(2))
	assert.Equal(t, "0.00", totals.TotalSGST.StringFixed(2))
	assert.Equal(t, "36.00", totals.TotalIGST.StringFixed(2))
	assert.Equal(t, "236.00", totals.TotalAmount.StringFixed(2))
}

func TestComputeInvoiceTotalsDiscount(t *testing.T) {
	// 3 x 150 = 450, 10% discount -> 405 taxable, 12% GST -> 48.60
	totals, err := ComputeInvoiceTotals([]LineItem{
		item("Gadget", 3, "150", "10", "12"),
	}, true, TaxModeIntraState)
	require.NoError(t, err)

	got := totals.Items[0]
	assert.Equal(t, "405.00", got.TaxableValue.StringFixed(2))
	assert.Equal(t, "48.60", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "453.60", got.LineTotal.StringFixed(2))
	assert.Equal(t, "24.30", totals.TotalCGST.StringFixed(2))
	assert.Equal(t, "24.30", totals.TotalSGST.StringFixed(2))
}

func TestComputeInvoiceTotalsTaxDisabled(t *testing.T) {
	totals, err := ComputeInvoiceTotals([]LineItem{
		item("Widget", 2, "100", "0", "18"),
		item("Gadget", 1, "50.50", "0", "5"),
	}, false, "")
	require.NoError(t, err)

	assert.Equal(t, "250.50", totals.SubTotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.TotalTaxAmount.StringFixed(2))
	assert.True(t, totals.TotalAmount.Equal(totals.SubTotal))
	for _, it := range totals.Items {
		assert.True(t, it.TaxAmount.IsZero())
		assert.True(t, it.LineTotal.Equal(it.TaxableValue))
	}
}

func TestComputeInvoiceTotalsMultiItemAggregation(t *testing.T) {
	totals, err := ComputeInvoiceTotals([]LineItem{
		item("A", 1, "100", "0", "18"),
		item("B", 2, "200", "5", "12"),
		item("C", 1, "50", "0", "0"),
	}, true, TaxModeIntraState)
	require.NoError(t, err)

	// Aggregates must equal the sum of their per-item parts.
	sumTaxable := decimal.Zero
	sumTax := decimal.Zero
	for _, it := range totals.Items {
		sumTaxable = sumTaxable.Add(it.TaxableValue)
		sumTax = sumTax.Add(it.TaxAmount)
	}
	assert.True(t, totals.SubTotal.Equal(sumTaxable))
	assert.True(t, totals.TotalTaxAmount.Equal(sumTax))
	assert.True(t, totals.TotalAmount.Equal(sumTaxable.Add(sumTax)))
	assert.True(t, totals.TotalTaxAmount.Equal(totals.TotalCGST.Add(totals.TotalSGST).Add(totals.TotalIGST)))
}

func TestComputeInvoiceTotalsValidation(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
	}{
		{name: "empty item list", items: nil},
		{name: "blank name", items: []LineItem{item("   ", 1, "100", "0", "18")}},
		{name: "zero quantity", items: []LineItem{item("Widget", 0, "100", "0", "18")}},
		{name: "negative price", items: []LineItem{item("Widget", 1, "-1", "0", "18")}},
		{name: "discount above 100", items: []LineItem{item("Widget", 1, "100", "101", "18")}},
		{name: "negative discount", items: []LineItem{item("Widget", 1, "100", "-5", "18")}},
		{name: "gst rate above 100", items: []LineItem{item("Widget", 1, "100", "0", "120")}},
		{name: "one bad item among good", items: []LineItem{
			item("Good", 1, "100", "0", "18"),
			item("Bad", 0, "100", "0", "18"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := ComputeInvoiceTotals(tt.items, true, TaxModeIntraState)
			assert.Nil(t, totals)
			assert.ErrorIs(t, err, ErrInvalidItem)
		})
	}
}

func TestComputeInvoiceTotalsUnknownMode(t *testing.T) {
	_, err := ComputeInvoiceTotals([]LineItem{item("Widget", 1, "100", "0", "18")}, true, "offshore")
	assert.ErrorIs(t, err, ErrInvalidItem)

	// Mode is irrelevant when tax is disabled.
	_, err = ComputeInvoiceTotals([]LineItem{item("Widget", 1, "100", "0", "18")}, false, "offshore")
	assert.NoError(t, err)
}

func TestComputeInvoiceTotalsDeterministic(t *testing.T) {
	items := []LineItem{
		item("A", 3, "99.99", "7.5", "18"),
		item("B", 1, "12.34", "0", "28"),
	}

	first, err := ComputeInvoiceTotals(items, true, TaxModeInterState)
	require.NoError(t, err)
	second, err := ComputeInvoiceTotals(items, true, TaxModeInterState)
	require.NoError(t, err)

	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.True(t, first.TotalTaxAmount.Equal(second.TotalTaxAmount))
	assert.Equal(t, len(first.Items), len(second.Items))
}

func TestComputeInvoiceTotalsFractionalRate(t *testing.T) {
	// Odd GST rate splits into fractional halves without losing precision.
	totals, err := ComputeInvoiceTotals([]LineItem{
		item("Widget", 1, "1000", "0", "5"),
	}, true, TaxModeIntraState)
	require.NoError(t, err)

	got := totals.Items[0]
	assert.Equal(t, "2.50", got.CGSTRate.StringFixed(2))
	assert.Equal(t, "2.50", got.SGSTRate.StringFixed(2))
	assert.Equal(t, "50.00", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "25.00", totals.TotalCGST.StringFixed(2))
	assert.Equal(t, "25.00", totals.TotalSGST.StringFixed(2))
}

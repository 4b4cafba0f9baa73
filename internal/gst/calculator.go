// Package gst implements the invoice financial core: turning raw line items
// into taxed totals (CGST/SGST vs IGST split) and deciding invoice payment
// status from the payment ledger. Everything here is pure; no I/O, no
// database; so the surrounding service layer can call it inside or outside
// a transaction.
package gst

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidItem signals a line item (or the item list itself) that fails
// field validation. Callers can match it with errors.Is.
var ErrInvalidItem = errors.New("invalid line item")

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// LineItem is the raw calculator input. It is ephemeral; only the computed
// fields are persisted.
type LineItem struct {
	Name            string
	HSNCode         string
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	GSTRatePercent  decimal.Decimal
}

// ComputedLineItem is a LineItem plus its derived tax breakdown.
type ComputedLineItem struct {
	LineItem
	TaxableValue decimal.Decimal
	CGSTRate     decimal.Decimal
	SGSTRate     decimal.Decimal
	IGSTRate     decimal.Decimal
	TaxAmount    decimal.Decimal
	LineTotal    decimal.Decimal
}

// InvoiceTotals aggregates the computed items into invoice-level figures.
type InvoiceTotals struct {
	Items          []ComputedLineItem
	SubTotal       decimal.Decimal
	TotalCGST      decimal.Decimal
	TotalSGST      decimal.Decimal
	TotalIGST      decimal.Decimal
	TotalTaxAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

func (it LineItem) validate(idx int) error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: items[%d]: name is required", ErrInvalidItem, idx)
	}
	if it.Quantity < 1 {
		return fmt.Errorf("%w: items[%d]: quantity must be at least 1", ErrInvalidItem, idx)
	}
	if it.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: items[%d]: unit price must not be negative", ErrInvalidItem, idx)
	}
	if it.DiscountPercent.IsNegative() || it.DiscountPercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: items[%d]: discount percent must be between 0 and 100", ErrInvalidItem, idx)
	}
	if it.GSTRatePercent.IsNegative() || it.GSTRatePercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: items[%d]: gst rate percent must be between 0 and 100", ErrInvalidItem, idx)
	}
	return nil
}

// ComputeInvoiceTotals derives the per-item tax breakdown and invoice
// aggregates for the given items. With taxEnabled=false every tax figure is
// zero and the total equals the subtotal. Either all items validate and a
// full result is returned, or the whole call fails; never a partial result.
//
// Amounts keep full decimal precision; rounding to 2 places is a display
// concern.
func ComputeInvoiceTotals(items []LineItem, taxEnabled bool, mode TaxMode) (*InvoiceTotals, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidItem)
	}
	if taxEnabled && mode != TaxModeIntraState && mode != TaxModeInterState {
		return nil, fmt.Errorf("%w: unknown tax mode %q", ErrInvalidItem, mode)
	}
	for i, it := range items {
		if err := it.validate(i); err != nil {
			return nil, err
		}
	}

	totals := &InvoiceTotals{Items: make([]ComputedLineItem, 0, len(items))}
	for _, it := range items {
		computed := computeItem(it, taxEnabled, mode)
		totals.Items = append(totals.Items, computed)

		totals.SubTotal = totals.SubTotal.Add(computed.TaxableValue)
		totals.TotalTaxAmount = totals.TotalTaxAmount.Add(computed.TaxAmount)
		totals.TotalCGST = totals.TotalCGST.Add(computed.TaxableValue.Mul(computed.CGSTRate).Div(hundred))
		totals.TotalSGST = totals.TotalSGST.Add(computed.TaxableValue.Mul(computed.SGSTRate).Div(hundred))
		totals.TotalIGST = totals.TotalIGST.Add(computed.TaxableValue.Mul(computed.IGSTRate).Div(hundred))
	}

	totals.TotalAmount = totals.SubTotal.Add(totals.TotalTaxAmount)
	return totals, nil
}

func computeItem(it LineItem, taxEnabled bool, mode TaxMode) ComputedLineItem {
	baseAmount := decimal.NewFromInt(it.Quantity).Mul(it.UnitPrice)
	discountAmount := baseAmount.Mul(it.DiscountPercent).Div(hundred)
	taxableValue := baseAmount.Sub(discountAmount)

	computed := ComputedLineItem{LineItem: it, TaxableValue: taxableValue}

	if !taxEnabled {
		computed.LineTotal = taxableValue
		return computed
	}

	switch mode {
	case TaxModeIntraState:
		half := it.GSTRatePercent.Div(two)
		computed.CGSTRate = half
		computed.SGSTRate = half
		computed.TaxAmount = taxableValue.Mul(half.Add(half)).Div(hundred)
	case TaxModeInterState:
		computed.IGSTRate = it.GSTRatePercent
		computed.TaxAmount = taxableValue.Mul(it.GSTRatePercent).Div(hundred)
	}

	computed.LineTotal = taxableValue.Add(computed.TaxAmount)
	return computed
}

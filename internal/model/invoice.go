package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the persisted invoice header. The monetary aggregates are
// derived by the tax calculator at create/edit time; the per-item tax rows
// are the source of truth and the header figures are a display cache
// reconstructed from them.
//
// Status is never written directly by payment flows; it is recomputed from
// the payment ledger inside the same transaction as each payment insert.
type Invoice struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_invoice_no" json:"user_id"`
	InvoiceNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_invoice_no" json:"invoice_number"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	IssueDate      time.Time       `gorm:"type:date;not null" json:"issue_date"`
	DueDate        time.Time       `gorm:"type:date;not null" json:"due_date"`
	TaxEnabled     bool            `gorm:"not null;default:false" json:"tax_enabled"`
	TaxMode        string          `gorm:"type:varchar(15)" json:"tax_mode"` // intra-state, inter-state ("" when tax disabled)
	SubTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sub_total"`
	TotalCGST      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_cgst"`
	TotalSGST      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_sgst"`
	TotalIGST      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_igst"`
	TotalTaxAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status         string          `gorm:"type:varchar(20);not null;default:'due';index" json:"status"` // due, partially_paid, paid
	Notes          string          `gorm:"type:text" json:"notes"`
	PaymentTerms   string          `gorm:"type:varchar(50)" json:"payment_terms"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	Payments       []Payment       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// InvoiceItem is one computed line of an invoice. The cgst/sgst/igst
// percentages are frozen at computation time for audit stability even though
// the tax mode itself is re-derivable.
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	HSNCode         string          `gorm:"type:varchar(20)" json:"hsn_code"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	TaxableValue    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"taxable_value"`
	CGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"cgst_rate"`
	SGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"sgst_rate"`
	IGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"igst_rate"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	Position        int             `gorm:"not null;default:0" json:"position"` // insertion order, display only
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

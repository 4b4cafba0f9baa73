package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod enum constants
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCard         = "card"
	PaymentMethodUPI          = "upi"
)

// Payment is one entry in an invoice's append-only payment ledger. Rows are
// immutable once created; there is no update or void; corrections would need
// a schema extension.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice       *Invoice        `gorm:"foreignKey:InvoiceID" json:"-"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_paid"`
	PaymentDate   time.Time       `gorm:"not null;index" json:"payment_date"`
	PaymentMethod string          `gorm:"type:varchar(20);not null" json:"payment_method"` // cash, bank_transfer, card, upi
	TransactionID string          `gorm:"type:varchar(100)" json:"transaction_id"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

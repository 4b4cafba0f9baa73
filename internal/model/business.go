package model

import (
	"time"

	"github.com/google/uuid"
)

// BusinessProfile holds the tenant's own registered business details. Its
// State is the "bill from" side of tax-mode detection.
type BusinessProfile struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	BusinessName string    `gorm:"type:varchar(255);not null" json:"business_name"`
	GSTIN        string    `gorm:"type:varchar(20)" json:"gstin"`
	Address      string    `gorm:"type:text" json:"address"`
	City         string    `gorm:"type:varchar(100)" json:"city"`
	State        string    `gorm:"type:varchar(100)" json:"state"`
	Pincode      string    `gorm:"type:varchar(10)" json:"pincode"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BankDetail is the tenant's bank account printed on invoices and receipts.
type BankDetail struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	AccountName   string    `gorm:"type:varchar(255);not null" json:"account_name"`
	AccountNumber string    `gorm:"type:varchar(30);not null" json:"account_number"`
	IFSCCode      string    `gorm:"type:varchar(20)" json:"ifsc_code"`
	BankName      string    `gorm:"type:varchar(255)" json:"bank_name"`
	UPIID         string    `gorm:"type:varchar(100)" json:"upi_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

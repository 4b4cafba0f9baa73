package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerStatus enum constants
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Customer is a tenant-scoped billing counterparty. State drives the
// intra-state vs inter-state GST split on invoices issued to this customer.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string         `gorm:"type:varchar(20);not null" json:"phone"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	GSTIN     string         `gorm:"type:varchar(20)" json:"gstin"`
	Address   string         `gorm:"type:text" json:"address"`
	City      string         `gorm:"type:varchar(100)" json:"city"`
	State     string         `gorm:"type:varchar(100)" json:"state"`
	Pincode   string         `gorm:"type:varchar(10)" json:"pincode"`
	Status    string         `gorm:"type:varchar(10);not null;default:'active'" json:"status"` // active, inactive
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

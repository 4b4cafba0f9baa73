package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateInvoice  = "CREATE_INVOICE"
	ActionUpdateInvoice  = "UPDATE_INVOICE"
	ActionDeleteInvoice  = "DELETE_INVOICE"
	ActionSetStatus      = "SET_INVOICE_STATUS"
	ActionRecordPayment  = "RECORD_PAYMENT"
	ActionCreateCustomer = "CREATE_CUSTOMER"
	ActionUpdateCustomer = "UPDATE_CUSTOMER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

package service

import (
	"context"
	"encoding/json"

	"invoicely/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// auditLogger writes best-effort audit entries. A failed write never fails
// the operation being audited.
type auditLogger struct {
	db *gorm.DB
}

func newAuditLogger(db *gorm.DB) *auditLogger {
	return &auditLogger{db: db}
}

func (a *auditLogger) write(ctx context.Context, userID uuid.UUID, action, entityID, entityName string, details interface{}) {
	if a == nil || a.db == nil {
		return
	}

	detailsJSON, _ := json.Marshal(details)

	entry := model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	_ = a.db.WithContext(ctx).Create(&entry).Error
}

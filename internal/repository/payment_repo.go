package repository

import (
	"context"

	"invoicely/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TenantPayment is a payment row joined with its invoice number and customer
// name, for the tenant-wide payment list.
type TenantPayment struct {
	model.Payment
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
}

// PaymentRepository is the append-only payment ledger. There is deliberately
// no update or delete; corrections are out of scope for the ledger model.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]TenantPayment, int64, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

// SumByInvoice totals the ledger for one invoice. Inside a transaction this
// sees the freshly inserted row, which is what the status recompute needs.
func (r *paymentRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		TotalPaid decimal.Decimal `gorm:"column:total_paid"`
	}
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("COALESCE(SUM(amount_paid), 0) AS total_paid").
		Where("invoice_id = ?", invoiceID).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.TotalPaid, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := GetDB(ctx, r.db).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]TenantPayment, int64, error) {
	db := GetDB(ctx, r.db)

	base := db.Table("payments").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []TenantPayment
	err := base.Session(&gorm.Session{}).
		Select("payments.*, invoices.invoice_number AS invoice_number, customers.name AS customer_name").
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Order("payments.payment_date desc").
		Offset((page - 1) * limit).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *paymentRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := GetDB(ctx, r.db).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("payments.id = ? AND invoices.user_id = ?", id, userID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

package repository

import (
	"context"

	"invoicely/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceListFilter narrows the tenant's invoice list.
type InvoiceListFilter struct {
	Status        string // due, partially_paid, paid or empty for all
	InvoiceNumber string // partial match
	Page          int
	Limit         int
}

// InvoiceRepository persists invoices and their line items. Every lookup is
// scoped by the owning user id; an invoice belonging to another tenant is
// indistinguishable from a missing one.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Invoice, error)
	FindByIDWithItems(ctx context.Context, userID, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	ExistsByNumber(ctx context.Context, userID uuid.UUID, invoiceNumber string) (bool, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, invoice *model.Invoice) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDWithItems(ctx context.Context, userID, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := GetDB(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Customer").
		First(&invoice, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, userID uuid.UUID, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		q = q.Where("user_id = ?", userID)
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.InvoiceNumber != "" {
			q = q.Where("invoice_number ILIKE ?", "%"+filter.InvoiceNumber+"%")
		}
		return q
	}

	if err := apply(db.Model(&model.Invoice{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := apply(db.Preload("Customer")).
		Order("created_at desc").
		Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, userID uuid.UUID, invoiceNumber string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("user_id = ? AND invoice_number = ?", userID, invoiceNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Omit("Items", "Payments", "Customer").Save(invoice).Error
}

// ReplaceItems deletes the invoice's current line items and inserts the new
// set. Callers run this inside a transaction together with the header update.
func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
	}
	return db.Create(&items).Error
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *invoiceRepository) Delete(ctx context.Context, invoice *model.Invoice) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&model.Payment{}).Error; err != nil {
		return err
	}
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	return db.Delete(invoice).Error
}

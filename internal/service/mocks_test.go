package service

import (
	"context"
	"strings"

	"invoicely/internal/model"
	"invoicely/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. The transaction fake runs
// the callback directly; transactional semantics themselves are the
// database's job, the services only need the composition to be exercised.

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// --- invoices ---

type fakeInvoiceRepo struct {
	invoices      map[uuid.UUID]*model.Invoice
	statusUpdates []string
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (f *fakeInvoiceRepo) add(inv *model.Invoice) *model.Invoice {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	f.invoices[inv.ID] = inv
	return inv
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	f.add(invoice)
	return nil
}

func (f *fakeInvoiceRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeInvoiceRepo) FindByIDWithItems(ctx context.Context, userID, id uuid.UUID) (*model.Invoice, error) {
	return f.FindByID(ctx, userID, id)
}

func (f *fakeInvoiceRepo) List(ctx context.Context, userID uuid.UUID, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var result []model.Invoice
	for _, inv := range f.invoices {
		if inv.UserID != userID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.InvoiceNumber != "" && !strings.Contains(inv.InvoiceNumber, filter.InvoiceNumber) {
			continue
		}
		result = append(result, *inv)
	}
	return result, int64(len(result)), nil
}

func (f *fakeInvoiceRepo) ExistsByNumber(ctx context.Context, userID uuid.UUID, invoiceNumber string) (bool, error) {
	for _, inv := range f.invoices {
		if inv.UserID == userID && inv.InvoiceNumber == invoiceNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	copied := *invoice
	f.invoices[invoice.ID] = &copied
	return nil
}

func (f *fakeInvoiceRepo) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	if inv, ok := f.invoices[invoiceID]; ok {
		inv.Items = items
	}
	return nil
}

func (f *fakeInvoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	f.statusUpdates = append(f.statusUpdates, status)
	if inv, ok := f.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, invoice *model.Invoice) error {
	delete(f.invoices, invoice.ID)
	return nil
}

// --- payments ---

type fakePaymentRepo struct {
	payments []model.Payment
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePaymentRepo) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			total = total.Add(p.AmountPaid)
		}
	}
	return total, nil
}

func (f *fakePaymentRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakePaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]repository.TenantPayment, int64, error) {
	var rows []repository.TenantPayment
	for _, p := range f.payments {
		rows = append(rows, repository.TenantPayment{Payment: p})
	}
	return rows, int64(len(rows)), nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Payment, error) {
	for _, p := range f.payments {
		if p.ID == id {
			copied := p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// --- customers ---

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (f *fakeCustomerRepo) add(c *model.Customer) *model.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.customers[c.ID] = c
	return c
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	f.add(customer)
	return nil
}

func (f *fakeCustomerRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, userID uuid.UUID, search, status string, page, limit int) ([]model.Customer, int64, error) {
	var result []model.Customer
	for _, c := range f.customers {
		if c.UserID != userID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	copied := *customer
	f.customers[customer.ID] = &copied
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, customer *model.Customer) error {
	delete(f.customers, customer.ID)
	return nil
}

// --- business profile / bank ---

type fakeBusinessRepo struct {
	profile *model.BusinessProfile
	bank    *model.BankDetail
}

func (f *fakeBusinessRepo) FindProfileByUser(ctx context.Context, userID uuid.UUID) (*model.BusinessProfile, error) {
	if f.profile == nil || f.profile.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.profile
	return &copied, nil
}

func (f *fakeBusinessRepo) SaveProfile(ctx context.Context, profile *model.BusinessProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	copied := *profile
	f.profile = &copied
	return nil
}

func (f *fakeBusinessRepo) FindBankByUser(ctx context.Context, userID uuid.UUID) (*model.BankDetail, error) {
	if f.bank == nil || f.bank.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.bank
	return &copied, nil
}

func (f *fakeBusinessRepo) SaveBank(ctx context.Context, bank *model.BankDetail) error {
	if bank.ID == uuid.Nil {
		bank.ID = uuid.New()
	}
	copied := *bank
	f.bank = &copied
	return nil
}

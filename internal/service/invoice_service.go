package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicely/internal/gst"
	"invoicely/internal/model"
	"invoicely/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type LineItemPayload struct {
	Name            string `json:"name" binding:"required"`
	HSNCode         string `json:"hsn_code"`
	Quantity        int64  `json:"quantity" binding:"required,min=1"`
	UnitPrice       string `json:"unit_price" binding:"required"` // decimal string, e.g. "100.00"
	DiscountPercent string `json:"discount_percent"`              // 0-100, defaults to 0
	GSTRatePercent  string `json:"gst_rate_percent"`              // 0-100, defaults to 0
}

type CreateInvoiceRequest struct {
	InvoiceNumber string            `json:"invoice_number" binding:"required"`
	CustomerID    string            `json:"customer_id" binding:"required"`
	IssueDate     string            `json:"issue_date" binding:"required"` // YYYY-MM-DD
	DueDate       string            `json:"due_date" binding:"required"`   // YYYY-MM-DD
	TaxEnabled    bool              `json:"tax_enabled"`
	TaxMode       string            `json:"tax_mode" binding:"omitempty,oneof=intra-state inter-state"`
	Items         []LineItemPayload `json:"items" binding:"required,min=1,dive"`
	Notes         string            `json:"notes"`
	PaymentTerms  string            `json:"payment_terms"`
}

type InvoiceItemResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	HSNCode         string `json:"hsn_code,omitempty"`
	Quantity        int64  `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	DiscountPercent string `json:"discount_percent"`
	TaxableValue    string `json:"taxable_value"`
	CGSTRate        string `json:"cgst_rate"`
	SGSTRate        string `json:"sgst_rate"`
	IGSTRate        string `json:"igst_rate"`
	TaxAmount       string `json:"tax_amount"`
	LineTotal       string `json:"line_total"`
}

type InvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     string                `json:"customer_id"`
	CustomerName   string                `json:"customer_name,omitempty"`
	IssueDate      string                `json:"issue_date"`
	DueDate        string                `json:"due_date"`
	TaxEnabled     bool                  `json:"tax_enabled"`
	TaxMode        string                `json:"tax_mode,omitempty"`
	SubTotal       string                `json:"sub_total"`
	TotalCGST      string                `json:"total_cgst"`
	TotalSGST      string                `json:"total_sgst"`
	TotalIGST      string                `json:"total_igst"`
	TotalTaxAmount string                `json:"total_tax_amount"`
	TotalAmount    string                `json:"total_amount"`
	Status         string                `json:"status"`
	Notes          string                `json:"notes,omitempty"`
	PaymentTerms   string                `json:"payment_terms,omitempty"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt      string                `json:"created_at"`
}

// InvoiceDetailResponse adds the collaborating entities a detail/print view
// needs alongside the invoice itself.
type InvoiceDetailResponse struct {
	Invoice  InvoiceResponse     `json:"invoice"`
	Customer *CustomerResponse   `json:"customer,omitempty"`
	Business *BusinessResponse   `json:"business,omitempty"`
	Bank     *BankDetailResponse `json:"bank,omitempty"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, userID, invoiceID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error
	GetInvoice(ctx context.Context, userID, invoiceID string) (InvoiceDetailResponse, error)
	ListInvoices(ctx context.Context, userID string, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error)
	SetStatus(ctx context.Context, userID, invoiceID, status string) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	businessRepo repository.BusinessRepository
	txManager    repository.TransactionManager
	audit        *auditLogger
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	businessRepo repository.BusinessRepository,
	txManager repository.TransactionManager,
	db *gorm.DB,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		businessRepo: businessRepo,
		txManager:    txManager,
		audit:        newAuditLogger(db),
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	customerID, issueDate, dueDate, err := parseInvoiceHeader(req)
	if err != nil {
		return InvoiceResponse{}, err
	}

	customer, err := s.customerRepo.FindByID(ctx, uid, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch customer: %w", err)
	}

	mode, err := s.resolveTaxMode(ctx, uid, customer, req)
	if err != nil {
		return InvoiceResponse{}, err
	}

	totals, err := computeTotals(req.Items, req.TaxEnabled, mode)
	if err != nil {
		return InvoiceResponse{}, err
	}

	exists, err := s.invoiceRepo.ExistsByNumber(ctx, uid, req.InvoiceNumber)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to check invoice number: %w", err)
	}
	if exists {
		return InvoiceResponse{}, fmt.Errorf("%w: invoice number %q already exists", ErrConflict, req.InvoiceNumber)
	}

	invoice := model.Invoice{
		UserID:        uid,
		InvoiceNumber: req.InvoiceNumber,
		CustomerID:    customerID,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		TaxEnabled:    req.TaxEnabled,
		TaxMode:       taxModeColumn(req.TaxEnabled, mode),
		Status:        gst.StatusDue,
		Notes:         req.Notes,
		PaymentTerms:  req.PaymentTerms,
	}
	applyTotals(&invoice, totals)
	invoice.Items = toItemRows(totals.Items)

	// Header and item rows land together or not at all; a reader must never
	// observe an invoice without its items.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.invoiceRepo.Create(txCtx, &invoice)
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.audit.write(ctx, uid, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNumber, req)

	invoice.Customer = customer
	return toInvoiceResponse(invoice, true), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, userID, invoiceID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	uid, invID, err := parseScopedIDs(userID, invoiceID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	existing, err := s.invoiceRepo.FindByID(ctx, uid, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("%w: invoice", ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	customerID, issueDate, dueDate, err := parseInvoiceHeader(req)
	if err != nil {
		return InvoiceResponse{}, err
	}

	customer, err := s.customerRepo.FindByID(ctx, uid, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch customer: %w", err)
	}

	mode, err := s.resolveTaxMode(ctx, uid, customer, req)
	if err != nil {
		return InvoiceResponse{}, err
	}

	totals, err := computeTotals(req.Items, req.TaxEnabled, mode)
	if err != nil {
		return InvoiceResponse{}, err
	}

	if req.InvoiceNumber != existing.InvoiceNumber {
		exists, checkErr := s.invoiceRepo.ExistsByNumber(ctx, uid, req.InvoiceNumber)
		if checkErr != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to check invoice number: %w", checkErr)
		}
		if exists {
			return InvoiceResponse{}, fmt.Errorf("%w: invoice number %q already exists", ErrConflict, req.InvoiceNumber)
		}
	}

	existing.InvoiceNumber = req.InvoiceNumber
	existing.CustomerID = customerID
	existing.IssueDate = issueDate
	existing.DueDate = dueDate
	existing.TaxEnabled = req.TaxEnabled
	existing.TaxMode = taxModeColumn(req.TaxEnabled, mode)
	existing.Notes = req.Notes
	existing.PaymentTerms = req.PaymentTerms
	applyTotals(existing, totals)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.invoiceRepo.Update(txCtx, existing); updateErr != nil {
			return updateErr
		}
		return s.invoiceRepo.ReplaceItems(txCtx, existing.ID, toItemRows(totals.Items))
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.audit.write(ctx, uid, model.ActionUpdateInvoice, existing.ID.String(), existing.InvoiceNumber, req)

	reloaded, err := s.invoiceRepo.FindByIDWithItems(ctx, uid, existing.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded, true), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	uid, invID, err := parseScopedIDs(userID, invoiceID)
	if err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, uid, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invoice", ErrNotFound)
		}
		return fmt.Errorf("failed to fetch invoice: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.invoiceRepo.Delete(txCtx, invoice)
	})
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.audit.write(ctx, uid, model.ActionDeleteInvoice, invoice.ID.String(), invoice.InvoiceNumber, nil)
	return nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, userID, invoiceID string) (InvoiceDetailResponse, error) {
	uid, invID, err := parseScopedIDs(userID, invoiceID)
	if err != nil {
		return InvoiceDetailResponse{}, err
	}

	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, uid, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceDetailResponse{}, fmt.Errorf("%w: invoice", ErrNotFound)
		}
		return InvoiceDetailResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	detail := InvoiceDetailResponse{Invoice: toInvoiceResponse(*invoice, true)}

	if invoice.Customer != nil {
		resp := toCustomerResponse(*invoice.Customer)
		detail.Customer = &resp
	}

	// Business and bank details are optional; a fresh tenant may not have
	// filled them in yet.
	if profile, profileErr := s.businessRepo.FindProfileByUser(ctx, uid); profileErr == nil {
		resp := toBusinessResponse(*profile)
		detail.Business = &resp
	}
	if bank, bankErr := s.businessRepo.FindBankByUser(ctx, uid); bankErr == nil {
		resp := toBankDetailResponse(*bank)
		detail.Bank = &resp
	}

	return detail, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, userID string, filter repository.InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, uid, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv, false))
	}
	return result, total, nil
}

// SetStatus is the explicit manual override; payment flows never call it.
func (s *invoiceService) SetStatus(ctx context.Context, userID, invoiceID, status string) (InvoiceResponse, error) {
	switch status {
	case gst.StatusDue, gst.StatusPartiallyPaid, gst.StatusPaid:
	default:
		return InvoiceResponse{}, fmt.Errorf("%w: status must be one of: due, partially_paid, paid", ErrInvalidInput)
	}

	uid, invID, err := parseScopedIDs(userID, invoiceID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, uid, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, fmt.Errorf("%w: invoice", ErrNotFound)
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	if invoice.Status != status {
		if err := s.invoiceRepo.UpdateStatus(ctx, invoice.ID, status); err != nil {
			return InvoiceResponse{}, fmt.Errorf("failed to update status: %w", err)
		}
		invoice.Status = status
		s.audit.write(ctx, uid, model.ActionSetStatus, invoice.ID.String(), invoice.InvoiceNumber, map[string]string{"status": status})
	}

	return toInvoiceResponse(*invoice, false), nil
}

// --- Helpers ---

func parseScopedIDs(userID, invoiceID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	invID, err := uuid.Parse(invoiceID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}
	return uid, invID, nil
}

func parseInvoiceHeader(req CreateInvoiceRequest) (uuid.UUID, time.Time, time.Time, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: invalid customer id", ErrInvalidInput)
	}

	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: invalid issue_date (expected YYYY-MM-DD)", ErrInvalidInput)
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: invalid due_date (expected YYYY-MM-DD)", ErrInvalidInput)
	}

	if dueDate.Before(issueDate) {
		return uuid.Nil, time.Time{}, time.Time{}, fmt.Errorf("%w: due_date must not be before issue_date", ErrInvalidInput)
	}

	return customerID, issueDate, dueDate, nil
}

// resolveTaxMode prefers an explicit tax_mode from the request; otherwise it
// detects one from the business and customer states. A missing state is an
// input error, not a silent default.
func (s *invoiceService) resolveTaxMode(ctx context.Context, uid uuid.UUID, customer *model.Customer, req CreateInvoiceRequest) (gst.TaxMode, error) {
	if !req.TaxEnabled {
		return "", nil
	}
	if req.TaxMode != "" {
		return gst.TaxMode(req.TaxMode), nil
	}

	businessState := ""
	if profile, err := s.businessRepo.FindProfileByUser(ctx, uid); err == nil {
		businessState = profile.State
	}

	mode, err := gst.DetectTaxMode(businessState, customer.State)
	if err != nil {
		return "", fmt.Errorf("%w: tax mode cannot be detected (business or customer state missing); pass tax_mode explicitly", ErrInvalidInput)
	}
	return mode, nil
}

func computeTotals(items []LineItemPayload, taxEnabled bool, mode gst.TaxMode) (*gst.InvoiceTotals, error) {
	lineItems := make([]gst.LineItem, 0, len(items))
	for i, it := range items {
		unitPrice, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: items[%d]: invalid unit_price", ErrInvalidInput, i)
		}

		discount := decimal.Zero
		if it.DiscountPercent != "" {
			discount, err = decimal.NewFromString(it.DiscountPercent)
			if err != nil {
				return nil, fmt.Errorf("%w: items[%d]: invalid discount_percent", ErrInvalidInput, i)
			}
		}

		gstRate := decimal.Zero
		if it.GSTRatePercent != "" {
			gstRate, err = decimal.NewFromString(it.GSTRatePercent)
			if err != nil {
				return nil, fmt.Errorf("%w: items[%d]: invalid gst_rate_percent", ErrInvalidInput, i)
			}
		}

		lineItems = append(lineItems, gst.LineItem{
			Name:            it.Name,
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       unitPrice,
			DiscountPercent: discount,
			GSTRatePercent:  gstRate,
		})
	}

	totals, err := gst.ComputeInvoiceTotals(lineItems, taxEnabled, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return totals, nil
}

func taxModeColumn(taxEnabled bool, mode gst.TaxMode) string {
	if !taxEnabled {
		return ""
	}
	return string(mode)
}

func applyTotals(invoice *model.Invoice, totals *gst.InvoiceTotals) {
	invoice.SubTotal = totals.SubTotal
	invoice.TotalCGST = totals.TotalCGST
	invoice.TotalSGST = totals.TotalSGST
	invoice.TotalIGST = totals.TotalIGST
	invoice.TotalTaxAmount = totals.TotalTaxAmount
	invoice.TotalAmount = totals.TotalAmount
}

func toItemRows(items []gst.ComputedLineItem) []model.InvoiceItem {
	rows := make([]model.InvoiceItem, 0, len(items))
	for i, it := range items {
		rows = append(rows, model.InvoiceItem{
			Name:            it.Name,
			HSNCode:         it.HSNCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			TaxableValue:    it.TaxableValue,
			CGSTRate:        it.CGSTRate,
			SGSTRate:        it.SGSTRate,
			IGSTRate:        it.IGSTRate,
			TaxAmount:       it.TaxAmount,
			LineTotal:       it.LineTotal,
			Position:        i,
		})
	}
	return rows
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice, withItems bool) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID.String(),
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID.String(),
		IssueDate:      inv.IssueDate.Format("2006-01-02"),
		DueDate:        inv.DueDate.Format("2006-01-02"),
		TaxEnabled:     inv.TaxEnabled,
		TaxMode:        inv.TaxMode,
		SubTotal:       inv.SubTotal.StringFixed(2),
		TotalCGST:      inv.TotalCGST.StringFixed(2),
		TotalSGST:      inv.TotalSGST.StringFixed(2),
		TotalIGST:      inv.TotalIGST.StringFixed(2),
		TotalTaxAmount: inv.TotalTaxAmount.StringFixed(2),
		TotalAmount:    inv.TotalAmount.StringFixed(2),
		Status:         inv.Status,
		Notes:          inv.Notes,
		PaymentTerms:   inv.PaymentTerms,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
	}

	if inv.Customer != nil {
		resp.CustomerName = inv.Customer.Name
	}

	if withItems {
		resp.Items = make([]InvoiceItemResponse, 0, len(inv.Items))
		for _, it := range inv.Items {
			resp.Items = append(resp.Items, InvoiceItemResponse{
				ID:              it.ID.String(),
				Name:            it.Name,
				HSNCode:         it.HSNCode,
				Quantity:        it.Quantity,
				UnitPrice:       it.UnitPrice.StringFixed(2),
				DiscountPercent: it.DiscountPercent.StringFixed(2),
				TaxableValue:    it.TaxableValue.StringFixed(2),
				CGSTRate:        it.CGSTRate.StringFixed(2),
				SGSTRate:        it.SGSTRate.StringFixed(2),
				IGSTRate:        it.IGSTRate.StringFixed(2),
				TaxAmount:       it.TaxAmount.StringFixed(2),
				LineTotal:       it.LineTotal.StringFixed(2),
			})
		}
	}

	return resp
}

package service

import (
	"context"
	"encoding/json"
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

type RecordPaymentRequest struct {
	InvoiceID     string `json:"invoice_id" binding:"required"`
	AmountPaid    string `json:"amount_paid" binding:"required"`  // decimal string, must be > 0
	PaymentDate   string `json:"payment_date" binding:"required"` // YYYY-MM-DD
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash bank_transfer card upi"`
	TransactionID string `json:"transaction_id"`
	Notes         string `json:"notes"`
}

type PaymentResponse struct {
	ID            string `json:"id"`
	InvoiceID     string `json:"invoice_id"`
	AmountPaid    string `json:"amount_paid"`
	PaymentDate   string `json:"payment_date"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
	InvoiceStatus string `json:"invoice_status"` // status after this payment was applied
	CreatedAt     string `json:"created_at"`
}

type TenantPaymentResponse struct {
	PaymentResponse
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name,omitempty"`
}

// InvoiceBalanceResponse is derived from the ledger on every call; it is
// never cached.
type InvoiceBalanceResponse struct {
	InvoiceID   string `json:"invoice_id"`
	TotalAmount string `json:"total_amount"`
	TotalPaid   string `json:"total_paid"`
	Balance     string `json:"balance"`
	Status      string `json:"status"`
}

type ReceiptResponse struct {
	Payment       PaymentResponse   `json:"payment"`
	InvoiceNumber string            `json:"invoice_number"`
	InvoiceTotal  string            `json:"invoice_total"`
	Customer      *CustomerResponse `json:"customer,omitempty"`
	Business      *BusinessResponse `json:"business,omitempty"`
}

// --- Interface ---

type PaymentService interface {
	RecordPayment(ctx context.Context, userID string, req RecordPaymentRequest) (PaymentResponse, error)
	GetInvoiceBalance(ctx context.Context, userID, invoiceID string) (InvoiceBalanceResponse, error)
	ListByInvoice(ctx context.Context, userID, invoiceID string) ([]PaymentResponse, error)
	ListPayments(ctx context.Context, userID string, page, limit int) ([]TenantPaymentResponse, int64, error)
	GetReceipt(ctx context.Context, userID, paymentID string) (ReceiptResponse, error)
}

type paymentService struct {
	invoiceRepo  repository.InvoiceRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	businessRepo repository.BusinessRepository
	txManager    repository.TransactionManager
	audit        *auditLogger
	hub          interface{ GetBroadcast() chan []byte } // optional websocket hub
}

func NewPaymentService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	businessRepo repository.BusinessRepository,
	txManager repository.TransactionManager,
	db *gorm.DB,
	hub interface{ GetBroadcast() chan []byte },
) PaymentService {
	return &paymentService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		businessRepo: businessRepo,
		txManager:    txManager,
		audit:        newAuditLogger(db),
		hub:          hub,
	}
}

// --- Implementation ---

// RecordPayment appends a payment to the invoice's ledger and recomputes the
// invoice status from the full ledger sum, all inside one transaction so
// concurrent payments against the same invoice serialize without lost
// updates. A mid-transaction failure leaves neither the payment row nor a
// status change behind.
func (s *paymentService) RecordPayment(ctx context.Context, userID string, req RecordPaymentRequest) (PaymentResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	invID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: invalid invoice id", ErrInvalidInput)
	}

	amount, err := decimal.NewFromString(req.AmountPaid)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: invalid amount_paid", ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return PaymentResponse{}, fmt.Errorf("%w: amount_paid must be greater than zero", ErrInvalidInput)
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("%w: invalid payment_date (expected YYYY-MM-DD)", ErrInvalidInput)
	}

	payment := model.Payment{
		InvoiceID:     invID,
		AmountPaid:    amount,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}

	var (
		invoiceNumber string
		oldStatus     string
		newStatus     string
	)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, uid, invID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: invoice", ErrNotFound)
			}
			return fmt.Errorf("failed to fetch invoice: %w", findErr)
		}
		invoiceNumber = invoice.InvoiceNumber
		oldStatus = invoice.Status

		if createErr := s.paymentRepo.Create(txCtx, &payment); createErr != nil {
			return fmt.Errorf("failed to record payment: %w", createErr)
		}

		totalPaid, sumErr := s.paymentRepo.SumByInvoice(txCtx, invID)
		if sumErr != nil {
			return fmt.Errorf("failed to sum payments: %w", sumErr)
		}

		newStatus = gst.ReconcileStatus(invoice.TotalAmount, totalPaid)
		if newStatus != invoice.Status {
			if updateErr := s.invoiceRepo.UpdateStatus(txCtx, invID, newStatus); updateErr != nil {
				return fmt.Errorf("failed to update invoice status: %w", updateErr)
			}
		}
		return nil
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	s.audit.write(ctx, uid, model.ActionRecordPayment, payment.ID.String(), invoiceNumber, req)

	if newStatus != oldStatus {
		s.notifyStatusChange(invID, invoiceNumber, oldStatus, newStatus)
	}

	return toPaymentResponse(payment, newStatus), nil
}

func (s *paymentService) GetInvoiceBalance(ctx context.Context, userID, invoiceID string) (InvoiceBalanceResponse, error) {
	uid, invID, err := parseScopedIDs(userID, invoiceID)
	if err != nil {
		return InvoiceBalanceResponse{}, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, uid, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceBalanceResponse{}, fmt.Errorf("%w: invoice", ErrNotFound)
		}
		return InvoiceBalanceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	totalPaid, err := s.paymentRepo.SumByInvoice(ctx, invID)
	if err != nil {
		return InvoiceBalanceResponse{}, fmt.Errorf("failed to sum payments: %w", err)
	}

	return InvoiceBalanceResponse{
		InvoiceID:   invID.String(),
		TotalAmount: invoice.TotalAmount.StringFixed(2),
		TotalPaid:   totalPaid.StringFixed(2),
		Balance:     gst.OutstandingBalance(invoice.TotalAmount, totalPaid).StringFixed(2),
		Status:      gst.ReconcileStatus(invoice.TotalAmount, totalPaid),
	}, nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, userID, invoiceID string) ([]PaymentResponse, error) {
	uid, invID, err := parseScopedIDs(userID, invoiceID)
	if err != nil {
		return nil, err
	}

	// Ownership check before exposing the ledger.
	invoice, err := s.invoiceRepo.FindByID(ctx, uid, invID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	payments, err := s.paymentRepo.ListByInvoice(ctx, invID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p, invoice.Status))
	}
	return result, nil
}

func (s *paymentService) ListPayments(ctx context.Context, userID string, page, limit int) ([]TenantPaymentResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	rows, total, err := s.paymentRepo.ListByUser(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]TenantPaymentResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, TenantPaymentResponse{
			PaymentResponse: toPaymentResponse(row.Payment, ""),
			InvoiceNumber:   row.InvoiceNumber,
			CustomerName:    row.CustomerName,
		})
	}
	return result, total, nil
}

func (s *paymentService) GetReceipt(ctx context.Context, userID, paymentID string) (ReceiptResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	payID, err := uuid.Parse(paymentID)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("%w: invalid payment id", ErrInvalidInput)
	}

	payment, err := s.paymentRepo.FindByID(ctx, uid, payID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiptResponse{}, fmt.Errorf("%w: receipt", ErrNotFound)
		}
		return ReceiptResponse{}, fmt.Errorf("failed to fetch payment: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, uid, payment.InvoiceID)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	receipt := ReceiptResponse{
		Payment:       toPaymentResponse(*payment, invoice.Status),
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceTotal:  invoice.TotalAmount.StringFixed(2),
	}

	if customer, custErr := s.customerRepo.FindByID(ctx, uid, invoice.CustomerID); custErr == nil {
		resp := toCustomerResponse(*customer)
		receipt.Customer = &resp
	}
	if profile, profErr := s.businessRepo.FindProfileByUser(ctx, uid); profErr == nil {
		resp := toBusinessResponse(*profile)
		receipt.Business = &resp
	}

	return receipt, nil
}

// --- Helpers ---

func (s *paymentService) notifyStatusChange(invoiceID uuid.UUID, invoiceNumber, oldStatus, newStatus string) {
	if s.hub == nil {
		return
	}

	event := map[string]string{
		"type":           "invoice_status_changed",
		"invoice_id":     invoiceID.String(),
		"invoice_number": invoiceNumber,
		"old_status":     oldStatus,
		"new_status":     newStatus,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	// Non-blocking; a slow or absent consumer must never stall a payment.
	select {
	case s.hub.GetBroadcast() <- payload:
	default:
	}
}

func toPaymentResponse(p model.Payment, invoiceStatus string) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		InvoiceID:     p.InvoiceID.String(),
		AmountPaid:    p.AmountPaid.StringFixed(2),
		PaymentDate:   p.PaymentDate.Format("2006-01-02"),
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		InvoiceStatus: invoiceStatus,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

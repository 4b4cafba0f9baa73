package service

import (
	"context"
	"fmt"
	"time"

	"invoicely/internal/gst"
	"invoicely/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type FinancialReportRow struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
	IssueDate     string `json:"issue_date"`
	Status        string `json:"status"`
	TotalAmount   string `json:"total_amount"`
	TotalPaid     string `json:"total_paid"`
	Balance       string `json:"balance"`
}

type FinancialReportResponse struct {
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	TotalInvoiced    string               `json:"total_invoiced"`
	TotalCollected   string               `json:"total_collected"`
	TotalOutstanding string               `json:"total_outstanding"`
	InvoiceCount     int                  `json:"invoice_count"`
	PaidCount        int                  `json:"paid_count"`
	Rows             []FinancialReportRow `json:"rows"`
}

type DailyRevenuePoint struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
}

type DashboardResponse struct {
	TotalRevenue      string              `json:"total_revenue"`
	CustomerCount     int64               `json:"customer_count"`
	PendingCount      int64               `json:"pending_count"`
	PendingValue      string              `json:"pending_value"`
	InvoiceCount      int64               `json:"invoice_count"`
	RevenueLast90Days []DailyRevenuePoint `json:"revenue_last_90_days"`
}

// --- Interface ---

type ReportService interface {
	GetFinancialReport(ctx context.Context, userID string, startDate, endDate time.Time) (FinancialReportResponse, error)
	GetDashboard(ctx context.Context, userID string) (DashboardResponse, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// reportRow joins each invoice header with the sum of its payments so the
// balance can be derived in one pass.
type reportRow struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	CustomerName  string
	IssueDate     time.Time
	Status        string
	TotalAmount   decimal.Decimal
	TotalPaid     decimal.Decimal
}

// GetFinancialReport lists all invoices issued inside the period together
// with what has been collected against each, regardless of when the payments
// themselves arrived.
func (s *reportService) GetFinancialReport(ctx context.Context, userID string, startDate, endDate time.Time) (FinancialReportResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return FinancialReportResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}
	if endDate.Before(startDate) {
		return FinancialReportResponse{}, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	var rows []reportRow
	err = s.db.WithContext(ctx).Table("invoices").
		Select("invoices.id as invoice_id, invoices.invoice_number, customers.name as customer_name, invoices.issue_date, invoices.status, invoices.total_amount, COALESCE(SUM(payments.amount_paid), 0) as total_paid").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Joins("LEFT JOIN payments ON payments.invoice_id = invoices.id").
		Where("invoices.user_id = ? AND invoices.issue_date >= ? AND invoices.issue_date <= ?", uid, startDate, endDate).
		Group("invoices.id, invoices.invoice_number, customers.name, invoices.issue_date, invoices.status, invoices.total_amount").
		Order("invoices.issue_date DESC, invoices.invoice_number DESC").
		Scan(&rows).Error
	if err != nil {
		return FinancialReportResponse{}, fmt.Errorf("failed to build financial report: %w", err)
	}

	resp := FinancialReportResponse{
		StartDate: startDate.Format("2006-01-02"),
		EndDate:   endDate.Format("2006-01-02"),
		Rows:      make([]FinancialReportRow, 0, len(rows)),
	}

	totalInvoiced := decimal.Zero
	totalCollected := decimal.Zero
	totalOutstanding := decimal.Zero
	for _, row := range rows {
		balance := gst.OutstandingBalance(row.TotalAmount, row.TotalPaid)
		totalInvoiced = totalInvoiced.Add(row.TotalAmount)
		totalCollected = totalCollected.Add(row.TotalPaid)
		totalOutstanding = totalOutstanding.Add(balance)
		if row.Status == gst.StatusPaid {
			resp.PaidCount++
		}

		resp.Rows = append(resp.Rows, FinancialReportRow{
			InvoiceID:     row.InvoiceID.String(),
			InvoiceNumber: row.InvoiceNumber,
			CustomerName:  row.CustomerName,
			IssueDate:     row.IssueDate.Format("2006-01-02"),
			Status:        row.Status,
			TotalAmount:   row.TotalAmount.StringFixed(2),
			TotalPaid:     row.TotalPaid.StringFixed(2),
			Balance:       balance.StringFixed(2),
		})
	}

	resp.InvoiceCount = len(rows)
	resp.TotalInvoiced = totalInvoiced.StringFixed(2)
	resp.TotalCollected = totalCollected.StringFixed(2)
	resp.TotalOutstanding = totalOutstanding.StringFixed(2)

	return resp, nil
}

// GetDashboard aggregates the headline metrics plus a 90-day daily revenue
// series. Days without any payment are emitted as zero so charts render a
// continuous axis.
func (s *reportService) GetDashboard(ctx context.Context, userID string) (DashboardResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("%w: invalid user id", ErrInvalidInput)
	}

	var resp DashboardResponse

	// Total Revenue: everything ever collected across the tenant's invoices.
	var revenue struct {
		Value decimal.Decimal
	}
	err = s.db.WithContext(ctx).Table("payments").
		Select("COALESCE(SUM(payments.amount_paid), 0) as value").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.user_id = ?", uid).
		Scan(&revenue).Error
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to sum revenue: %w", err)
	}
	resp.TotalRevenue = revenue.Value.StringFixed(2)

	if err := s.db.WithContext(ctx).Model(&model.Customer{}).
		Where("user_id = ?", uid).
		Count(&resp.CustomerCount).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count customers: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("user_id = ?", uid).
		Count(&resp.InvoiceCount).Error; err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to count invoices: %w", err)
	}

	// Pending: unpaid invoices and their remaining balances.
	var pending []struct {
		TotalAmount decimal.Decimal
		TotalPaid   decimal.Decimal
	}
	err = s.db.WithContext(ctx).Table("invoices").
		Select("invoices.total_amount, COALESCE(SUM(payments.amount_paid), 0) as total_paid").
		Joins("LEFT JOIN payments ON payments.invoice_id = invoices.id").
		Where("invoices.user_id = ? AND invoices.status <> ?", uid, gst.StatusPaid).
		Group("invoices.id, invoices.total_amount").
		Scan(&pending).Error
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to fetch pending invoices: %w", err)
	}

	pendingValue := decimal.Zero
	for _, p := range pending {
		pendingValue = pendingValue.Add(gst.OutstandingBalance(p.TotalAmount, p.TotalPaid))
	}
	resp.PendingCount = int64(len(pending))
	resp.PendingValue = pendingValue.StringFixed(2)

	// Daily revenue for the last 90 days, zero-filled.
	since := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -89)

	var daily []struct {
		Day   time.Time
		Value decimal.Decimal
	}
	err = s.db.WithContext(ctx).Table("payments").
		Select("DATE(payments.payment_date) as day, COALESCE(SUM(payments.amount_paid), 0) as value").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.user_id = ? AND payments.payment_date >= ?", uid, since).
		Group("DATE(payments.payment_date)").
		Order("day ASC").
		Scan(&daily).Error
	if err != nil {
		return DashboardResponse{}, fmt.Errorf("failed to build revenue series: %w", err)
	}

	byDay := make(map[string]decimal.Decimal, len(daily))
	for _, d := range daily {
		byDay[d.Day.Format("2006-01-02")] = d.Value
	}

	resp.RevenueLast90Days = make([]DailyRevenuePoint, 0, 90)
	for day := since; !day.After(time.Now().UTC()); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		value, ok := byDay[key]
		if !ok {
			value = decimal.Zero
		}
		resp.RevenueLast90Days = append(resp.RevenueLast90Days, DailyRevenuePoint{
			Date:    key,
			Revenue: value.StringFixed(2),
		})
	}

	return resp, nil
}

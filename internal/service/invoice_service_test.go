package service

import (
	"context"
	"testing"

	"invoicely/internal/gst"
	"invoicely/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	userID       uuid.UUID
	customer     *model.Customer
	invoiceRepo  *fakeInvoiceRepo
	customerRepo *fakeCustomerRepo
	businessRepo *fakeBusinessRepo
	svc          InvoiceService
}

func newInvoiceFixture(t *testing.T, businessState, customerState string) *invoiceFixture {
	t.Helper()

	userID := uuid.New()
	customerRepo := newFakeCustomerRepo()
	customer := customerRepo.add(&model.Customer{
		UserID: userID,
		Name:   "Acme Traders",
		Phone:  "9876543210",
		State:  customerState,
		Status: model.CustomerStatusActive,
	})

	businessRepo := &fakeBusinessRepo{}
	if businessState != "" {
		businessRepo.profile = &model.BusinessProfile{
			ID:           uuid.New(),
			UserID:       userID,
			BusinessName: "My Shop",
			State:        businessState,
		}
	}

	invoiceRepo := newFakeInvoiceRepo()
	svc := NewInvoiceService(invoiceRepo, customerRepo, businessRepo, &fakeTxManager{}, nil)

	return &invoiceFixture{
		userID:       userID,
		customer:     customer,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		businessRepo: businessRepo,
		svc:          svc,
	}
}

func (f *invoiceFixture) createRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		CustomerID:    f.customer.ID.String(),
		IssueDate:     "2026-08-01",
		DueDate:       "2026-08-31",
		TaxEnabled:    true,
		TaxMode:       string(gst.TaxModeIntraState),
		Items: []LineItemPayload{
			{Name: "Widget", Quantity: 2, UnitPrice: "100", GSTRatePercent: "18"},
		},
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	resp, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-001", resp.InvoiceNumber)
	assert.Equal(t, "200.00", resp.SubTotal)
	assert.Equal(t, "18.00", resp.TotalCGST)
	assert.Equal(t, "18.00", resp.TotalSGST)
	assert.Equal(t, "0.00", resp.TotalIGST)
	assert.Equal(t, "236.00", resp.TotalAmount)
	assert.Equal(t, gst.StatusDue, resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "200.00", resp.Items[0].TaxableValue)
	assert.Equal(t, "36.00", resp.Items[0].TaxAmount)
}

func TestCreateInvoiceInterStateUsesIGST(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Maharashtra")

	req := f.createRequest()
	req.TaxMode = "" // detected from the differing states

	resp, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), req)
	require.NoError(t, err)

	assert.Equal(t, string(gst.TaxModeInterState), resp.TaxMode)
	assert.Equal(t, "0.00", resp.TotalCGST)
	assert.Equal(t, "0.00", resp.TotalSGST)
	assert.Equal(t, "36.00", resp.TotalIGST)
}

func TestCreateInvoiceMissingStateRequiresExplicitMode(t *testing.T) {
	f := newInvoiceFixture(t, "", "Karnataka")

	req := f.createRequest()
	req.TaxMode = ""

	_, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Explicit mode unblocks the same request.
	req.TaxMode = string(gst.TaxModeIntraState)
	_, err = f.svc.CreateInvoice(context.Background(), f.userID.String(), req)
	assert.NoError(t, err)
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	_, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.CreateInvoice(context.Background(), f.userID.String(), f.createRequest())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateInvoiceDueDateBeforeIssueDate(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	req := f.createRequest()
	req.IssueDate = "2026-08-31"
	req.DueDate = "2026-08-01"

	_, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateInvoiceUnknownCustomer(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	req := f.createRequest()
	req.CustomerID = uuid.NewString()

	_, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInvoiceRejectsBadItems(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	tests := []struct {
		name string
		item LineItemPayload
	}{
		{name: "zero quantity", item: LineItemPayload{Name: "Widget", Quantity: 0, UnitPrice: "100"}},
		{name: "negative price", item: LineItemPayload{Name: "Widget", Quantity: 1, UnitPrice: "-10"}},
		{name: "discount above 100", item: LineItemPayload{Name: "Widget", Quantity: 1, UnitPrice: "100", DiscountPercent: "150"}},
		{name: "unparsable price", item: LineItemPayload{Name: "Widget", Quantity: 1, UnitPrice: "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.createRequest()
			req.Items = []LineItemPayload{tt.item}

			_, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	created, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	req := f.createRequest()
	req.Items = []LineItemPayload{
		{Name: "Gadget", Quantity: 1, UnitPrice: "500", GSTRatePercent: "12"},
	}

	updated, err := f.svc.UpdateInvoice(context.Background(), f.userID.String(), created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "500.00", updated.SubTotal)
	assert.Equal(t, "60.00", updated.TotalTaxAmount)
	assert.Equal(t, "560.00", updated.TotalAmount)
}

func TestSetStatusValidation(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	created, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.SetStatus(context.Background(), f.userID.String(), created.ID, "cancelled")
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err := f.svc.SetStatus(context.Background(), f.userID.String(), created.ID, gst.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, gst.StatusPaid, resp.Status)
}

func TestDeleteInvoice(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")

	created, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteInvoice(context.Background(), f.userID.String(), created.ID))

	_, err = f.svc.GetInvoice(context.Background(), f.userID.String(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetInvoiceIncludesBusinessContext(t *testing.T) {
	f := newInvoiceFixture(t, "Karnataka", "Karnataka")
	f.businessRepo.bank = &model.BankDetail{
		ID:            uuid.New(),
		UserID:        f.userID,
		AccountName:   "My Shop",
		AccountNumber: "1234567890",
	}

	created, err := f.svc.CreateInvoice(context.Background(), f.userID.String(), f.createRequest())
	require.NoError(t, err)

	detail, err := f.svc.GetInvoice(context.Background(), f.userID.String(), created.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.Business)
	assert.Equal(t, "My Shop", detail.Business.BusinessName)
	require.NotNil(t, detail.Bank)
	assert.Equal(t, "1234567890", detail.Bank.AccountNumber)
}

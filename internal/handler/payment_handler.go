package handler

import (
	"net/http"

	"invoicely/internal/service"
	"invoicely/pkg/pagination"
	"invoicely/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/api/payments")
	{
		payments.POST("", h.RecordPayment)
		payments.GET("", h.ListPayments)
		payments.GET("/:id/receipt", h.GetReceipt)
	}
}

// RecordPayment records a payment against an invoice
// @Summary      Record payment
// @Description  Appends a payment to the invoice's ledger and recomputes the invoice status in the same transaction
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordPaymentRequest  true  "Record Payment Payload"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, payment))
}

// ListPayments returns all payments across the tenant's invoices
// @Summary      List payments
// @Description  Returns a paginated list of payments across all invoices, newest first
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=response.ListPayload}
// @Failure      500    {object}  response.Response
// @Router       /api/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	params := pagination.Parse(c)

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), currentUserID(c), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, payments, total, params.Page, params.Limit))
}

// GetReceipt returns the data needed to render a payment receipt
// @Summary      Get payment receipt
// @Description  Returns the payment with its invoice, customer and business context
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  response.Response{data=service.ReceiptResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id}/receipt [get]
func (h *PaymentHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.paymentService.GetReceipt(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, receipt))
}

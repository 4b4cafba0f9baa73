package handler

import (
	"net/http"
	"time"

	"invoicely/internal/service"
	"invoicely/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/financial", h.GetFinancialReport)
	}

	router.GET("/api/dashboard", h.GetDashboard)
}

// GetFinancialReport returns the invoiced/collected/outstanding breakdown for a period
// @Summary      Financial report
// @Description  Lists invoices issued inside the period with collected amounts and outstanding balances
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date YYYY-MM-DD (default: first of current month)"
// @Param        end_date    query     string  false  "End date YYYY-MM-DD (default: today)"
// @Success      200         {object}  response.Response{data=service.FinancialReportResponse}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/financial [get]
func (h *ReportHandler) GetFinancialReport(c *gin.Context) {
	now := time.Now().UTC()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endDate := now

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start_date (expected YYYY-MM-DD)"))
			return
		}
		startDate = parsed
	}
	if s := c.Query("end_date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end_date (expected YYYY-MM-DD)"))
			return
		}
		endDate = parsed
	}

	report, err := h.reportService.GetFinancialReport(c.Request.Context(), currentUserID(c), startDate, endDate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// GetDashboard returns headline metrics and a 90-day revenue series
// @Summary      Dashboard
// @Description  Returns total revenue, customer count, pending invoice figures and a zero-filled daily revenue chart
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.reportService.GetDashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}

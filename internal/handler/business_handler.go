package handler

import (
	"net/http"

	"invoicely/internal/service"
	"invoicely/pkg/response"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	businessService service.BusinessService
}

func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

func (h *BusinessHandler) RegisterRoutes(router *gin.RouterGroup) {
	business := router.Group("/api/business")
	{
		business.GET("/profile", h.GetProfile)
		business.PUT("/profile", h.SaveProfile)
		business.GET("/bank", h.GetBank)
		business.PUT("/bank", h.SaveBank)
	}
}

// GetProfile returns the tenant's business profile
// @Summary      Get business profile
// @Tags         business
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.BusinessResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/business/profile [get]
func (h *BusinessHandler) GetProfile(c *gin.Context) {
	profile, err := h.businessService.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// SaveProfile creates or replaces the tenant's business profile
// @Summary      Save business profile
// @Tags         business
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SaveBusinessRequest  true  "Business Profile Payload"
// @Success      200      {object}  response.Response{data=service.BusinessResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/business/profile [put]
func (h *BusinessHandler) SaveProfile(c *gin.Context) {
	var req service.SaveBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.businessService.SaveProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// GetBank returns the tenant's bank details
// @Summary      Get bank details
// @Tags         business
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.BankDetailResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/business/bank [get]
func (h *BusinessHandler) GetBank(c *gin.Context) {
	bank, err := h.businessService.GetBank(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bank))
}

// SaveBank creates or replaces the tenant's bank details
// @Summary      Save bank details
// @Tags         business
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SaveBankRequest  true  "Bank Details Payload"
// @Success      200      {object}  response.Response{data=service.BankDetailResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/business/bank [put]
func (h *BusinessHandler) SaveBank(c *gin.Context) {
	var req service.SaveBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bank, err := h.businessService.SaveBank(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bank))
}

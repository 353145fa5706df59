// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/artmarket-backend/internal/services"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /v1/payments/deposits
func (h *PaymentHandler) CreateDeposit(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	deposit, err := h.paymentService.CreateDeposit(identity, &req)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to create deposit")
		return
	}

	utils.CreatedResponse(c, deposit)
}

// POST /v1/payments/deposits/confirm
func (h *PaymentHandler) ConfirmDeposit(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ConfirmDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	deposit, err := h.paymentService.ConfirmDeposit(identity, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, deposit)
}

// GET /v1/payments/balance
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	balance, err := h.paymentService.GetBalance(identity)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to load balance")
		return
	}

	utils.SuccessResponse(c, balance)
}

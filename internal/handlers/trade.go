// internal/handlers/trade.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/artmarket-backend/internal/engine"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

// TradeHandler exposes the order settlement and auction surfaces.
type TradeHandler struct {
	engine *engine.Engine
}

func NewTradeHandler(eng *engine.Engine) *TradeHandler {
	return &TradeHandler{
		engine: eng,
	}
}

type purchaseRequest struct {
	ShippingDestination string `json:"shipping_destination" validate:"required,min=1"`
	Payment             int64  `json:"payment" validate:"required,min=1"`
}

type auctionRequest struct {
	MinBid int64 `json:"min_bid" validate:"required,min=1"`
}

type bidRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// POST /v1/instances/:id/purchase
func (h *TradeHandler) BuyArtwork(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	tokenID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid instance ID", nil)
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	order, err := h.engine.BuyArtwork(identity, tokenID, req.ShippingDestination, req.Payment)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, order)
}

// GET /v1/orders
func (h *TradeHandler) ListOrders(c *gin.Context) {
	utils.SuccessResponse(c, h.engine.ListActiveOrders())
}

// POST /v1/orders/:id/shipped
func (h *TradeHandler) StartedShipping(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	if err := h.engine.StartedShipping(identity, orderID); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"order_id": orderID, "status": engine.OrderShipped})
}

// POST /v1/orders/:id/delivered
func (h *TradeHandler) DeliveryConfirmation(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	if err := h.engine.DeliveryConfirmation(identity, orderID); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"order_id": orderID, "status": engine.OrderDelivered})
}

// POST /v1/instances/:id/auction
func (h *TradeHandler) PutUpForAuction(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	tokenID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid instance ID", nil)
		return
	}

	var req auctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	auction, err := h.engine.PutUpForAuction(identity, tokenID, req.MinBid)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, auction)
}

// GET /v1/auctions
func (h *TradeHandler) ListAuctions(c *gin.Context) {
	utils.SuccessResponse(c, h.engine.ListActiveAuctions())
}

// POST /v1/auctions/:id/bids
func (h *TradeHandler) Bid(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	auctionID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid auction ID", nil)
		return
	}

	var req bidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	if err := h.engine.Bid(identity, auctionID, req.Amount); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"auction_id": auctionID, "amount": req.Amount})
}

// POST /v1/auctions/:id/end-seller
func (h *TradeHandler) EndAuctionSeller(c *gin.Context) {
	h.endAuction(c, h.engine.EndAuctionSeller)
}

// POST /v1/auctions/:id/end-buyer
func (h *TradeHandler) EndAuctionBuyer(c *gin.Context) {
	h.endAuction(c, h.engine.EndAuctionBuyer)
}

func (h *TradeHandler) endAuction(c *gin.Context, end func(caller uuid.UUID, auctionID uint64) error) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	auctionID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid auction ID", nil)
		return
	}

	if err := end(identity, auctionID); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"auction_id": auctionID, "finalized": true})
}

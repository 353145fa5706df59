// internal/handlers/artwork.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/artmarket-backend/internal/engine"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

type ArtworkHandler struct {
	engine *engine.Engine
}

func NewArtworkHandler(eng *engine.Engine) *ArtworkHandler {
	return &ArtworkHandler{
		engine: eng,
	}
}

type addArtworkRequest struct {
	Price       int64  `json:"price" validate:"required,min=1"`
	Count       int    `json:"count" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	ImageRef    string `json:"image_ref,omitempty"`
}

type increaseCountRequest struct {
	Price    int64 `json:"price" validate:"required,min=1"`
	Increase int   `json:"increase" validate:"required,min=1"`
}

// POST /v1/artworks
func (h *ArtworkHandler) AddArtwork(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req addArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	artwork, err := h.engine.AddArtwork(identity, req.Price, req.Count, req.Description, req.ImageRef)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, artwork)
}

// POST /v1/artworks/:id/instances
func (h *ArtworkHandler) IncreaseCount(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	artworkID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid artwork ID", nil)
		return
	}

	var req increaseCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	if err := h.engine.IncreaseArtworkCount(identity, artworkID, req.Price, req.Increase); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"artwork_id": artworkID, "increase": req.Increase})
}

// GET /v1/artworks
func (h *ArtworkHandler) ListArtworks(c *gin.Context) {
	utils.SuccessResponse(c, h.engine.ListArtworks())
}

// GET /v1/instances
func (h *ArtworkHandler) ListInstances(c *gin.Context) {
	utils.SuccessResponse(c, h.engine.ListInstances())
}

// POST /v1/artworks/:id/verification-requests
func (h *ArtworkHandler) RequestVerification(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	artworkID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid artwork ID", nil)
		return
	}

	if err := h.engine.RequestVerification(identity, artworkID); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"artwork_id": artworkID, "status": "pending"})
}

// GET /v1/verification-requests
func (h *ArtworkHandler) ListVerificationRequests(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	pending, err := h.engine.PendingVerificationRequests(identity)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, pending)
}

// POST /v1/verification-requests/:id/approve
func (h *ArtworkHandler) VerifyArtwork(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	artworkID, ok := uintParam(c, "id")
	if !ok {
		utils.BadRequestResponse(c, "Invalid artwork ID", nil)
		return
	}

	if err := h.engine.VerifyArtwork(identity, artworkID); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"artwork_id": artworkID, "verified": true})
}

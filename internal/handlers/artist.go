// internal/handlers/artist.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/artmarket-backend/internal/engine"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

type ArtistHandler struct {
	engine *engine.Engine
}

func NewArtistHandler(eng *engine.Engine) *ArtistHandler {
	return &ArtistHandler{
		engine: eng,
	}
}

type registerArtistRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	ImageRef string `json:"image_ref,omitempty"`
}

// POST /v1/artists
func (h *ArtistHandler) RegisterArtist(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req registerArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	artist, err := h.engine.RegisterArtist(identity, req.Name, req.ImageRef)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, artist)
}

// POST /v1/verifiers
func (h *ArtistHandler) RegisterVerifier(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.engine.RegisterVerifier(identity); err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"identity": identity, "role": engine.RoleVerifier})
}

// GET /v1/artists/me
func (h *ArtistHandler) Me(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	artist, err := h.engine.LoginArtist(identity)
	if err != nil {
		utils.EngineErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, artist)
}

// GET /v1/artists
func (h *ArtistHandler) ListArtists(c *gin.Context) {
	utils.SuccessResponse(c, h.engine.ListArtists())
}

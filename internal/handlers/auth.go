// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/artmarket-backend/internal/services"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if validationErrs := utils.GetValidationErrors(err); len(validationErrs) > 0 {
			utils.ValidationErrorResponse(c, validationErrs)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, resp)
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, resp)
}

// POST /v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		utils.BadRequestResponse(c, "Refresh token is required", nil)
		return
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, resp)
}

// GET /v1/auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	identity, ok := utils.IdentityFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.authService.GetProfile(identity)
	if err != nil {
		utils.NotFoundResponse(c, "User")
		return
	}

	utils.SuccessResponse(c, user)
}

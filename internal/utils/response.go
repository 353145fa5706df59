// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/artmarket-backend/internal/engine"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "Invalid request"
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", resource+" not found", nil)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, "CONFLICT", message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errors)
}

// EngineErrorResponse maps a settlement engine failure onto the HTTP
// surface. Failures that are not engine errors are infra faults and
// surface as 500s.
func EngineErrorResponse(c *gin.Context, err error) {
	engErr, ok := engine.AsError(err)
	if !ok {
		InternalErrorResponse(c, "")
		return
	}

	status := http.StatusBadRequest
	switch engErr.Code {
	case engine.CodeNotAuthorized:
		status = http.StatusForbidden
	case engine.CodeNotFound:
		status = http.StatusNotFound
	case engine.CodeAlreadyRegistered, engine.CodeAlreadyVerified,
		engine.CodeAlreadyForSale, engine.CodeNotForSale,
		engine.CodeAuctionStillActive:
		status = http.StatusConflict
	case engine.CodeInsufficientPayment:
		status = http.StatusPaymentRequired
	case engine.CodeBidTooLow, engine.CodeAuctionNotActive:
		status = http.StatusBadRequest
	}

	ErrorResponse(c, status, string(engErr.Code), engErr.Message, nil)
}

// IdentityFromContext returns the authenticated caller identity set by the
// auth middleware.
func IdentityFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// internal/handlers/storage.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/artmarket-backend/internal/services"
	"github.com/javajoker/artmarket-backend/internal/utils"
)

type StorageHandler struct {
	storageService *services.StorageService
}

func NewStorageHandler(storageService *services.StorageService) *StorageHandler {
	return &StorageHandler{
		storageService: storageService,
	}
}

// POST /v1/storage/images
func (h *StorageHandler) UploadImage(c *gin.Context) {
	if _, ok := utils.IdentityFromContext(c); !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Missing image file", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(file, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, result)
}

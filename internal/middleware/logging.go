// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/artmarket-backend/internal/models"
)

// RequestLogger logs every request through logrus instead of gin's default
// writer.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Milliseconds(),
			"ip":       c.ClientIP(),
		}).Info("Request processed")
	}
}

// AuditLogMiddleware records every mutating API call to the audit_logs
// table. GET requests and the health check are skipped.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		// Read request body and put it back for the handler.
		var requestBody []byte
		if c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/") {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		userID, _ := c.Get("user_id")
		var userUUID *uuid.UUID
		if userID != nil {
			if uid, ok := userID.(string); ok {
				if parsed, err := uuid.Parse(uid); err == nil {
					userUUID = &parsed
				}
			}
		}

		var requestData map[string]interface{}
		if len(requestBody) > 0 {
			json.Unmarshal(requestBody, &requestData)
		}
		delete(requestData, "password")

		auditLog := &models.AuditLog{
			UserID:     userUUID,
			Action:     c.Request.Method + " " + c.FullPath(),
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Request:    models.JSONB(requestData),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}

		// Save audit log asynchronously
		go func() {
			if err := db.Create(auditLog).Error; err != nil {
				logrus.WithError(err).Error("Failed to create audit log")
			}
		}()
	}
}

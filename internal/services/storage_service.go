// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/javajoker/artmarket-backend/internal/config"
)

// StorageService uploads artwork and artist images to S3 and returns the
// image refs recorded on the engine's records.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
	imageFolder  = "images"
)

var allowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif"}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if config.AWS.AccessKeyID == "" {
		// Return service without S3 for local development
		return &StorageService{config: config}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

func (s *StorageService) UploadImage(file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > maxImageSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, maxImageSize)
	}

	fileExt := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedType := range allowedImageTypes {
		if fileExt == allowedType {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("file type %s is not allowed", fileExt)
	}

	if err := s.validateImage(file); err != nil {
		return nil, err
	}

	filename := s.generateFileName(header.Filename)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, filename, header.Header.Get("Content-Type"))
	}

	return s.uploadToLocal(fileBytes, filename, header.Header.Get("Content-Type"))
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	}

	_, err := s.s3Client.PutObject(params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, filename, contentType string) (*UploadResult, error) {
	// For local development, we'll simulate file storage
	url := fmt.Sprintf("http://localhost:8080/uploads/%s", filename)

	return &UploadResult{
		URL:      url,
		Key:      filename,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) generateFileName(originalName string) string {
	id := uuid.New()
	ext := filepath.Ext(originalName)
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s/%s_%s%s", imageFolder, timestamp, id.String()[:8], ext)
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func (s *StorageService) validateImage(file multipart.File) error {
	// Read first few bytes to check file signature
	buffer := make([]byte, 512)
	_, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Reset file pointer
	file.Seek(0, 0)

	if !isValidImageType(buffer) {
		return fmt.Errorf("invalid image file")
	}

	return nil
}

func isValidImageType(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	return false
}

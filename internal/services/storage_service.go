package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopmesh/storefront-backend/internal/config"
)

// StorageService stores product images. With AWS credentials configured it
// writes to S3; otherwise it falls back to the local uploads directory and
// returns "/uploads/<name>" paths that the product service serves itself.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

var allowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local storage for development
		if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// SaveImage validates and stores one uploaded image, returning the path to
// persist on the product record.
func (s *StorageService) SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	maxSize := int64(s.config.Upload.MaxSizeMB) * 1024 * 1024
	if header.Size > maxSize {
		return "", fmt.Errorf("file size %d bytes exceeds maximum of %d MB", header.Size, s.config.Upload.MaxSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, t := range allowedImageTypes {
		if ext == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("file type %s is not allowed", ext)
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	filename := s.generateFileName(header.Filename)

	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, filename, header.Header.Get("Content-Type"))
	}
	return s.uploadToLocal(fileBytes, filename)
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string) (string, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String("products/" + key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/products/%s", s.config.AWS.CloudFrontURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/products/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key), nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, filename string) (string, error) {
	path := filepath.Join(s.config.Upload.Dir, filename)
	if err := os.WriteFile(path, fileBytes, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return "/uploads/" + filename, nil
}

// DeleteImage removes a previously stored image. Missing files are not an
// error; the record may reference an image that was already cleaned up.
func (s *StorageService) DeleteImage(imagePath string) error {
	if imagePath == "" {
		return nil
	}

	if s.s3Client != nil {
		key := strings.TrimPrefix(imagePath, "/")
		if idx := strings.Index(imagePath, "/products/"); idx >= 0 {
			key = imagePath[idx+1:]
		}
		_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.config.AWS.S3Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to delete file from S3: %w", err)
		}
		return nil
	}

	local := filepath.Join(s.config.Upload.Dir, filepath.Base(imagePath))
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("path", local).Warn("Failed to delete image file")
		return err
	}
	return nil
}

func (s *StorageService) generateFileName(originalName string) string {
	ext := filepath.Ext(originalName)
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s%s", timestamp, uuid.NewString()[:8], ext)
}

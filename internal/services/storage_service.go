// internal/services/storage_service.go
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/Piyush5621/AnarchyBay/internal/config"
)

const MaxUploadSize = 50 * 1024 * 1024

// FileStore keeps product assets in object storage.
type FileStore interface {
	Upload(ctx context.Context, folder string, header *multipart.FileHeader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	PresignDownload(key string, expiration time.Duration) (string, error)
}

type StorageService struct {
	s3Client s3iface.S3API
	config   *config.Config
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// NewStorageService talks to Supabase Storage through its S3 compatible
// endpoint. Without S3 credentials it returns nil, ErrStorageDisabled.
func NewStorageService(config *config.Config) (*StorageService, error) {
	if !config.Supabase.StorageEnabled() {
		return nil, ErrStorageDisabled
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(config.Supabase.S3Region),
		Endpoint:         aws.String(config.Supabase.StorageEndpoint()),
		S3ForcePathStyle: aws.Bool(true),
		Credentials: credentials.NewStaticCredentials(
			config.Supabase.S3AccessKeyID,
			config.Supabase.S3SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

func (s *StorageService) Upload(ctx context.Context, folder string, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > MaxUploadSize {
		return nil, invalid(fmt.Sprintf("file %s exceeds the 50MB limit", header.Filename))
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := generateObjectKey(folder, header.Filename)

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Supabase.StorageBucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(header.Size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to storage: %w", err)
	}

	return &UploadResult{
		URL:      s.config.Supabase.PublicObjectURL(key),
		Key:      key,
		Size:     header.Size,
		MimeType: contentType,
	}, nil
}

func (s *StorageService) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Supabase.StorageBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from storage: %w", key, err)
	}
	return nil
}

func (s *StorageService) PresignDownload(key string, expiration time.Duration) (string, error) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket:                     aws.String(s.config.Supabase.StorageBucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", originalName(key))),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

// generateObjectKey yields <folder>/<yyyymmdd>_<id8>_<sanitized name>.
func generateObjectKey(folder, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	base = sanitizeName(base)

	name := fmt.Sprintf("%s_%s_%s%s", time.Now().UTC().Format("20060102"), uuid.NewString()[:8], base, ext)
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	out := b.String()
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}

// originalName strips the date and id prefix added by generateObjectKey.
func originalName(key string) string {
	name := path.Base(key)
	if parts := strings.SplitN(name, "_", 3); len(parts) == 3 {
		return parts[2]
	}
	return name
}

package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const logoURLExpiry = 7 * 24 * time.Hour

// LogoService stores tenant logo images in object storage.
type LogoService interface {
	UploadLogo(ctx context.Context, tenantID uuid.UUID, filename, contentType string, size int64, reader io.Reader) (string, error)
	EnsureBucket(ctx context.Context) error
}

type logoService struct {
	client *minio.Client
	bucket string
}

func NewLogoService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (LogoService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &logoService{client: client, bucket: bucket}, nil
}

func (s *logoService) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// UploadLogo writes the object under the tenant's prefix and returns a
// presigned URL for the stored logo.
func (s *logoService) UploadLogo(ctx context.Context, tenantID uuid.UUID, filename, contentType string, size int64, reader io.Reader) (string, error) {
	objectName := fmt.Sprintf("%s/logo%s", tenantID.String(), path.Ext(filename))
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}

	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, logoURLExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign logo url: %w", err)
	}
	return url.String(), nil
}

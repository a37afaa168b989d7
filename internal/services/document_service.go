package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentService stores order and invoice attachments (supplier quotes,
// delivery notes, signed invoices) in object storage. Objects are keyed by
// tenant so a presigned URL never crosses tenant boundaries.
type DocumentService interface {
	Upload(ctx context.Context, tenantID uuid.UUID, objectName, contentType string, reader io.Reader, objectSize int64) error
	GetPresignedURL(tenantID uuid.UUID, objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, tenantID uuid.UUID, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type documentService struct {
	client *minio.Client
	bucket string
}

func NewDocumentService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (DocumentService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &documentService{client: client, bucket: bucket}, nil
}

func (d *documentService) objectKey(tenantID uuid.UUID, objectName string) string {
	return fmt.Sprintf("%s/%s", tenantID.String(), objectName)
}

func (d *documentService) Upload(ctx context.Context, tenantID uuid.UUID, objectName, contentType string, reader io.Reader, objectSize int64) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := d.client.PutObject(ctx, d.bucket, d.objectKey(tenantID, objectName), reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (d *documentService) GetPresignedURL(tenantID uuid.UUID, objectName string, expiry time.Duration) (string, error) {
	url, err := d.client.PresignedGetObject(context.Background(), d.bucket, d.objectKey(tenantID, objectName), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (d *documentService) Delete(ctx context.Context, tenantID uuid.UUID, objectName string) error {
	return d.client.RemoveObject(ctx, d.bucket, d.objectKey(tenantID, objectName), minio.RemoveObjectOptions{})
}

func (d *documentService) EnsureBucketExists(ctx context.Context) error {
	found, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return err
	}
	if !found {
		return d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

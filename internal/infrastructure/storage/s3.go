package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lodge/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3ObjectStorage implements ObjectStorage using AWS S3 SDK v2.
// It is compatible with any S3-compatible storage (AWS S3, MinIO, etc.)
type S3ObjectStorage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	logger        *zap.Logger
}

// S3ObjectStorageOption is a functional option for configuring S3ObjectStorage
type S3ObjectStorageOption func(*S3ObjectStorage)

// WithS3Logger sets a custom logger for S3ObjectStorage
func WithS3Logger(logger *zap.Logger) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) {
		s.logger = logger
	}
}

// NewS3ObjectStorage creates a new S3ObjectStorage from configuration
func NewS3ObjectStorage(cfg *config.S3Config, opts ...S3ObjectStorageOption) (*S3ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("s3 configuration is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("s3 access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("s3 secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
	})

	storage := &S3ObjectStorage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	return storage, nil
}

// Upload stores data at bucket/path. PutObject overwrites any existing
// object at the same key.
func (s *S3ObjectStorage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (UploadResult, error) {
	if bucket == "" || path == "" {
		return UploadResult{}, errors.New("bucket and path are required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("object upload failed",
			zap.String("bucket", bucket),
			zap.String("path", path),
			zap.Error(err),
		)
		return UploadResult{}, fmt.Errorf("failed to upload object: %w", err)
	}

	digest := sha256.Sum256(data)
	return UploadResult{
		SHA256: hex.EncodeToString(digest[:]),
		Size:   int64(len(data)),
	}, nil
}

// SignObject generates a presigned GET URL for the object
func (s *S3ObjectStorage) SignObject(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	if bucket == "" || path == "" {
		return "", errors.New("bucket and path are required")
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}

	presignReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return presignReq.URL, nil
}

var _ ObjectStorage = (*S3ObjectStorage)(nil)

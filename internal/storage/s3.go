package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tradehub-be/internal/apperr"
	tcfg "tradehub-be/internal/config"
	"tradehub-be/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3 stores objects in any S3-compatible bucket (AWS, MinIO, R2).
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3(ctx context.Context, cfg tcfg.StorageConfig) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		switch {
		case cfg.Endpoint != "":
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
		}
	}

	return &S3{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (s *S3) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (Object, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxUploadSize+1))
	if err != nil {
		return Object{}, apperr.Infrastructure("read upload", err)
	}
	if len(data) == 0 {
		return Object{}, apperr.Validation("file", "file is empty")
	}
	if len(data) > MaxUploadSize {
		return Object{}, apperr.Validation("file", "file exceeds %d bytes", MaxUploadSize)
	}

	key := objectKey(folder, filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.FromCtx(ctx).Error("s3 upload failed", zap.String("key", key), zap.Error(err))
		return Object{}, apperr.Infrastructure("upload object", err)
	}

	logger.FromCtx(ctx).Info("object uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return Object{URL: s.publicURL + "/" + key, PublicID: key}, nil
}

func (s *S3) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return apperr.Validation("publicId", "public id is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return apperr.Infrastructure("delete object", err)
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/SscSPs/order_export_app/internal/core/ports"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var contentTypes = map[string]string{
	".csv":  "text/csv; charset=utf-8",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// s3PutAPI is the part of the S3 client the saver needs.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Saver uploads exports to an S3 bucket.
type S3Saver struct {
	client s3PutAPI
	bucket string
	prefix string // Optional key prefix (e.g., "exports/")
}

// S3SaverConfig holds configuration for S3Saver.
type S3SaverConfig struct {
	Bucket   string
	Region   string
	Endpoint string // Optional custom endpoint (for MinIO, LocalStack, etc.)
	Prefix   string
}

var _ ports.FileSaver = (*S3Saver)(nil)

// NewS3Saver creates a new S3-backed saver using the default AWS credential chain.
func NewS3Saver(ctx context.Context, cfg S3SaverConfig) (*S3Saver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO/LocalStack
		}
	})

	return newS3Saver(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Saver(client s3PutAPI, bucket, prefix string) *S3Saver {
	return &S3Saver{client: client, bucket: bucket, prefix: prefix}
}

// Save uploads content under prefix + filename.
func (s *S3Saver) Save(ctx context.Context, filename string, content []byte) error {
	name, err := cleanFilename(filename)
	if err != nil {
		return err
	}
	key := s.prefix + name

	contentType, ok := contentTypes[strings.ToLower(path.Ext(name))]
	if !ok {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put failed for %s: %w", key, err)
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"

	appconfig "blink-scheduler/core/config"
	"blink-scheduler/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStorage archives JSON workload reports. Kept as an interface so the
// analyzer can be tested without a bucket.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

type S3Storage struct {
	client *s3.Client
	bucket string
}

func NewS3Storage(cfg appconfig.StorageConfig) *S3Storage {
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{client: client, bucket: cfg.Bucket}
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Error("S3Storage:Put:Error", "bucket", s.bucket, "key", key, "error", err)
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

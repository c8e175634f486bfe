package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Shashank2985/Cannon/internal/core/domain"
)

// Storage keeps captures in an S3 bucket. Keys follow the same
// scans/<user>/ layout as the local backend so backends are swappable
// without a migration.
type Storage struct {
	client *awss3.Client
	bucket string
}

func New(ctx context.Context, bucket, region string) (*Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Storage{client: awss3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (s *Storage) Put(ctx context.Context, data []byte, userID, kind string) (string, error) {
	key := objectKey(userID, kind)
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrStorage, "put object", err)
	}
	return key, nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "read object body", err)
	}
	return data, nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "delete object", err)
	}
	return nil
}

func objectKey(userID, kind string) string {
	short := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("scans/%s/%d_%s_%s.jpg", userID, time.Now().UnixMilli(), kind, short)
}

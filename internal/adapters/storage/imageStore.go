package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type ImageStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ImageStoreMinio keeps post images in an S3 compatible bucket.
type ImageStoreMinio struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewImageStoreMinio(cfg ImageStoreConfig, logger *zap.Logger) (*ImageStoreMinio, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &ImageStoreMinio{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// EnsureBucket creates the bucket on first start.
func (s *ImageStoreMinio) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	s.logger.Info("creating image bucket", zap.String("bucket", s.bucket))
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *ImageStoreMinio) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return err
	}
	s.logger.Debug("image stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// URL is the path-style public address of key.
func (s *ImageStoreMinio) URL(key string) string {
	u := *s.client.EndpointURL()
	u.Path = "/" + s.bucket + "/" + strings.TrimPrefix(key, "/")
	return u.String()
}

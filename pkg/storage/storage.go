package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"time"

	"banquet-backoffice/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage", fx.Provide(New))

var ErrNotConfigured = errors.New("object storage not configured")

// Storage holds uploaded document files. When no object store is configured
// the service keeps running with metadata only.
type Storage interface {
	Configured() bool
	Upload(ctx context.Context, key, contentType string, size int64, r io.Reader) error
	PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}

type objectStorage struct {
	client *minio.Client
	bucket string
}

type disabledStorage struct{}

func New(cfg *config.Config) Storage {
	if !cfg.StorageConfigured() {
		zap.L().Warn("object storage not configured, documents degrade to metadata only")
		return disabledStorage{}
	}

	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.Secure,
	})
	if err != nil {
		zap.L().Warn("failed to create object storage client, degrading to metadata only", zap.Error(err))
		return disabledStorage{}
	}

	zap.L().Info("object storage client initialized", zap.String("endpoint", cfg.Storage.Endpoint))

	return &objectStorage{client: client, bucket: cfg.Storage.BucketName}
}

func (s *objectStorage) Configured() bool { return true }

func (s *objectStorage) Upload(ctx context.Context, key, contentType string, size int64, r io.Reader) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *objectStorage) PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *objectStorage) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (disabledStorage) Configured() bool { return false }

func (disabledStorage) Upload(context.Context, string, string, int64, io.Reader) error {
	return ErrNotConfigured
}

func (disabledStorage) PresignedGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}

func (disabledStorage) Remove(context.Context, string) error {
	return ErrNotConfigured
}

// Package store wraps the shared object store and the lease protocol
// that lets the poller take ownership of intake keys.
package store

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/joseph-ayodele/invoice-formatter/internal/common"
	"github.com/joseph-ayodele/invoice-formatter/internal/metrics"
)

// ObjectStore is the minimal surface the pipeline needs from a remote
// key-value blob store. All failures come back as StoreError.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
}

// MinioStore is the S3-compatible ObjectStore used in production.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

func NewMinioStore(cfg common.StoreConfig, logger *slog.Logger) (*MinioStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	endpoint, secure, err := parseEndpoint(cfg.EndpointURL, cfg.UseSSL)
	if err != nil {
		return nil, common.NewStoreError("connect", "", err)
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, common.NewStoreError("connect", "", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// parseEndpoint accepts either a bare host:port or a full URL; a URL
// scheme overrides the configured SSL flag.
func parseEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, err
	}
	return u.Host, u.Scheme == "https", nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return common.NewStoreError("bucket-exists", s.bucket, err)
	}
	if exists {
		return nil
	}
	s.logger.Info("creating bucket", "bucket", s.bucket)
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return common.NewStoreError("make-bucket", s.bucket, err)
	}
	return nil
}

// Bucket returns the bucket this store operates on.
func (s *MinioStore) Bucket() string {
	return s.bucket
}

func (s *MinioStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			metrics.StoreOpsTotal.WithLabelValues("list", "failure").Inc()
			return nil, common.NewStoreError("list", prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	metrics.StoreOpsTotal.WithLabelValues("list", "success").Inc()
	return keys, nil
}

func (s *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("get", "failure").Inc()
		return nil, common.NewStoreError("get", key, err)
	}
	defer func() {
		if cerr := obj.Close(); cerr != nil {
			s.logger.Warn("closing object reader", "key", key, "error", cerr)
		}
	}()
	data, err := io.ReadAll(obj)
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("get", "failure").Inc()
		return nil, common.NewStoreError("get", key, err)
	}
	metrics.StoreOpsTotal.WithLabelValues("get", "success").Inc()
	return data, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("put", "failure").Inc()
		return common.NewStoreError("put", key, err)
	}
	metrics.StoreOpsTotal.WithLabelValues("put", "success").Inc()
	return nil
}

func (s *MinioStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: s.bucket, Object: srcKey},
	)
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("copy", "failure").Inc()
		return common.NewStoreError("copy", srcKey, err)
	}
	metrics.StoreOpsTotal.WithLabelValues("copy", "success").Inc()
	return nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		metrics.StoreOpsTotal.WithLabelValues("delete", "failure").Inc()
		return common.NewStoreError("delete", key, err)
	}
	metrics.StoreOpsTotal.WithLabelValues("delete", "success").Inc()
	return nil
}

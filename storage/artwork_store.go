package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"ChromaFM/config"
	"ChromaFM/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArtworkStore keeps original artwork bytes in MinIO, addressed by content
// hash. Analysis never needs to refetch a cover from a rotting URL once its
// bytes have been seen anywhere.
type ArtworkStore struct {
	client *minio.Client
	bucket string
}

// NewArtworkStore connects to MinIO and ensures the artwork bucket exists.
func NewArtworkStore(cfg *config.Config) (*ArtworkStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created artwork bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &ArtworkStore{client: client, bucket: cfg.MinioBucket}, nil
}

func artworkObject(key string) string {
	return "artwork/" + key
}

// Get returns the stored artwork bytes for a content key.
func (s *ArtworkStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, artworkObject(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get artwork %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read artwork %s: %w", key, err)
	}
	return data, true, nil
}

// Put stores artwork bytes under their content key. Writing an object that
// already exists is harmless: content addressing makes it byte-identical.
func (s *ArtworkStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, artworkObject(key),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to store artwork %s: %w", key, err)
	}
	return nil
}

// Has reports whether artwork for the content key is already stored.
func (s *ArtworkStore) Has(ctx context.Context, key string) bool {
	_, err := s.client.StatObject(ctx, s.bucket, artworkObject(key), minio.StatObjectOptions{})
	return err == nil
}

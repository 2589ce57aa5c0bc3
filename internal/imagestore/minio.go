package imagestore

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"bedtime-server/internal/imagegen"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// MinioConfig describes the bucket illustrations are uploaded to.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Minio stores images in an S3-compatible bucket under their content hash.
type Minio struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// NewMinio connects and makes sure the bucket exists.
func NewMinio(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("Bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &Minio{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger.Named("MinioImageStore"),
	}, nil
}

// ObjectName is the content-addressed key for data.
func ObjectName(img *imagegen.Image) string {
	sum := blake2b.Sum256(img.Data)
	return "illustrations/" + hex.EncodeToString(sum[:]) + extensionFor(img.ContentType)
}

func (s *Minio) Save(ctx context.Context, img *imagegen.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	name := ObjectName(img)
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(img.Data), int64(len(img.Data)), minio.PutObjectOptions{
		ContentType:  img.ContentType,
		CacheControl: "public, max-age=31536000",
	})
	if err != nil {
		s.logger.Error("Failed to upload image", zap.String("object", name), zap.Error(err))
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	url := fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, name)
	s.logger.Debug("Image uploaded", zap.String("url", url), zap.Int("size_bytes", len(img.Data)))
	return url, nil
}

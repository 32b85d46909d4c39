package storage

import (
	"context"
	"fmt"
	"io"

	"storefront/internal/config"
	"storefront/pkg/e"

	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinIOClient(cfg config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioUser, cfg.MinioPassword, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return client, nil
}

func EnsureBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if !exists {
		return client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

// MinIOに保存する。キーは衝突しないようにuuidを前に付ける
type MinioStorage struct {
	mc        *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStorage(mc *minio.Client, bucket, publicURL string) *MinioStorage {
	return &MinioStorage{mc: mc, bucket: bucket, publicURL: publicURL}
}

func (s *MinioStorage) Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	key := objectKey(name)

	info, err := s.mc.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	return s.objectURL(info.Key), nil
}

func (s *MinioStorage) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}

func objectKey(name string) string {
	return "products/" + uuid.NewString() + "-" + name
}

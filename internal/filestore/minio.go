package filestore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore stores images in an S3-compatible bucket instead of the
// local volume. Object keys mirror the local layout so the two stores
// produce interchangeable URL paths.
type MinioStore struct {
	client *minio.Client
	bucket string
	host   string
}

var _ FileStoreInterface = (*MinioStore)(nil)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Host      string
}

func NewMinio(conf MinioConfig) (*MinioStore, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return &MinioStore{
		client: client,
		bucket: conf.Bucket,
		host:   strings.TrimRight(conf.Host, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (m *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket: %w", err)
	}
	return nil
}

func (m *MinioStore) WriteRecipeImage(
	ctx context.Context, recipeID int64, suffix string, data []byte,
) (urlPath string, n int, err error) {
	return m.put(ctx, recipeImagePath(recipeID, suffix), suffix, data)
}

func (m *MinioStore) put(ctx context.Context, key, suffix string, data []byte) (string, int, error) {
	contentType := mime.TypeByExtension(suffix)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := m.client.PutObject(ctx, m.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", 0, fmt.Errorf("putting object: %w", err)
	}
	return "/" + m.bucket + "/" + key, int(info.Size), nil
}

func (m *MinioStore) DeleteURLPath(ctx context.Context, urlpath string) error {
	key := trimURLPathPrefix(urlpath, m.bucket)
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

func (m *MinioStore) FileURL(urlpath string) string {
	if urlpath == "" {
		return ""
	}
	return m.host + "/" + strings.TrimLeft(urlpath, "/")
}

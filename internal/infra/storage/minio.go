package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/fisichecker/internal/domain/exports"
)

// Store archives export files in one MinIO/S3 bucket.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO dan pastikan bucket ada
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("make bucket %s: %w", bucket, err)
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// Put uploads file under key. The export format travels as object
// metadata so archived snapshots can be told apart without the key.
func (s *Store) Put(ctx context.Context, key string, file *exports.File) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = file.Format.ContentType()
	}
	opts := minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: contentDisposition(file.Filename),
		UserMetadata:       map[string]string{"export-format": string(file.Format)},
	}
	if _, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(file.Data), int64(len(file.Data)), opts); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Link returns a presigned GET URL valid for ttl. The bucket stays private.
func (s *Store) Link(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Ping checks the bucket is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s not found", s.bucketName)
	}
	return nil
}

func contentDisposition(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("attachment; filename=%q", filename)
}

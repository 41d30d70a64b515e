package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/media-review/errors"
	"github.com/johnquangdev/media-review/internal/domain/entities"
	"github.com/johnquangdev/media-review/pkg/config"
)

// MinIOCatalog lists reviewable assets straight from the media bucket
type MinIOCatalog struct {
	client    *minio.Client
	bucket    string
	publicURL string // base of the URLs handed to viewers, e.g. https://bucket.s3.amazonaws.com
}

// NewMinIOCatalog creates a catalog over an S3-compatible bucket
func NewMinIOCatalog(cfg *config.StorageConfig) (*MinIOCatalog, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.BucketName)
	}

	return &MinIOCatalog{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: publicURL,
	}, nil
}

// List returns the files under the category prefix of mediaType
func (m *MinIOCatalog) List(ctx context.Context, mediaType entities.MediaType) ([]entities.MediaFile, error) {
	keys, err := m.ListFiles(ctx, mediaType.Category()+"/")
	if err != nil {
		return nil, errors.ErrCatalogFailed(err).WithDetail("category", mediaType.Category())
	}
	return catalogEntries(m.publicURL, keys), nil
}

// ListFiles lists all object keys under prefix
func (m *MinIOCatalog) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var files []string

	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		files = append(files, object.Key)
	}

	return files, nil
}

// GetBucketInfo returns information about the bucket and connection
func (m *MinIOCatalog) GetBucketInfo(ctx context.Context) (map[string]interface{}, error) {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	return map[string]interface{}{
		"bucket":        m.bucket,
		"bucket_exists": exists,
		"endpoint":      m.client.EndpointURL().String(),
	}, nil
}

// catalogEntries turns object keys into catalog entries, skipping folder markers
func catalogEntries(publicURL string, keys []string) []entities.MediaFile {
	files := make([]entities.MediaFile, 0, len(keys))
	for _, key := range keys {
		if key == "" || strings.HasSuffix(key, "/") {
			continue
		}
		files = append(files, entities.MediaFile{
			Filename: path.Base(key),
			URL:      publicURL + "/" + key,
		})
	}
	return files
}

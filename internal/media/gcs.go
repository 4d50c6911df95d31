package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"anime-vault-go/internal/models"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const gcsPublicBaseURL = "https://storage.googleapis.com"

// GCSStore uploads to a Google Cloud Storage bucket with public objects.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
	prefix string
	now    func() time.Time
}

var _ ImageStore = (*GCSStore)(nil)

func NewGCSStore(ctx context.Context, cfg models.StorageConfig) (*GCSStore, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var clientOpts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create storage client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: client.Bucket(cfg.GCSBucket),
		name:   cfg.GCSBucket,
		prefix: cfg.PathPrefix,
		now:    time.Now,
	}, nil
}

// Upload writes a new object; an existing object at the same path is an error.
func (s *GCSStore) Upload(ctx context.Context, image Image) (string, error) {
	if image.Body == nil {
		return "", ErrEmptyImage
	}

	objectPath := ObjectPath(s.prefix, image.Filename, s.now())
	writer := s.bucket.Object(objectPath).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = contentType(image)
	writer.CacheControl = "public, max-age=3600"

	if _, err := io.Copy(writer, image.Body); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("unable to write %s: %w", objectPath, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("unable to upload %s: %w", objectPath, err)
	}

	publicURL := s.PublicURL(objectPath)
	zap.L().Info("Image uploaded",
		zap.String("backend", "gcs"),
		zap.String("path", objectPath),
		zap.String("url", publicURL))
	return publicURL, nil
}

func (s *GCSStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", gcsPublicBaseURL, s.name, (&url.URL{Path: objectPath}).EscapedPath())
}

func (s *GCSStore) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

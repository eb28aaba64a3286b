// Package services wraps the external image store. Uploaded originals live
// in a MinIO bucket; the service hands back the public URL and the opaque
// object key the rest of the application stores.
package services

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"greenlens/utils"
)

// UploadResult What the image store reports back for a stored object.
type UploadResult struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Size      int64  `json:"size"`
}

// Storage A connected image store client.
type Storage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewStorage Connect to the object store and make sure the bucket exists.
// Credentials come from the MINIO_ACCESS_KEY / MINIO_SECRET_KEY environment.
func NewStorage(ctx context.Context, config *utils.Config) (*Storage, error) {
	client, err := minio.New(config.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: config.Storage.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, config.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Storage.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.Info("Created bucket ", config.Storage.Bucket)
	}

	log.Info("Image store client initialized for ", config.Storage.Endpoint)
	return &Storage{
		client:        client,
		bucket:        config.Storage.Bucket,
		publicBaseURL: strings.TrimSuffix(config.Storage.PublicBaseURL, "/"),
	}, nil
}

// Upload Store an object and return its public URL and key.
func (s *Storage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{
		SecureURL: s.PublicURL(info.Key),
		PublicID:  info.Key,
		Size:      info.Size,
	}, nil
}

// Download Open a stored object for reading.
func (s *Storage) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
}

// Delete Remove a stored object.
func (s *Storage) Delete(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

// PublicURL The URL under which a stored object is publicly reachable.
func (s *Storage) PublicURL(objectName string) string {
	return s.publicBaseURL + "/" + s.bucket + "/" + objectName
}

// Package service provides blob storage access for uploaded files.
package service

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"

	// Register blob provider drivers
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// Storage persists uploaded files under opaque keys.
type Storage interface {
	// Save writes the data under key with the given content type.
	Save(ctx context.Context, key, contentType string, data io.Reader) error

	// Close releases the underlying bucket.
	Close() error
}

// blobStorage implements Storage using gocloud.dev/blob.
type blobStorage struct {
	bucket *blob.Bucket
}

// NewBlobStorage opens the bucket behind bucketURL.
// Supports: file://, mem://, s3://, gs://, azblob://
func NewBlobStorage(ctx context.Context, bucketURL string) (Storage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload bucket: %w", err)
	}
	return &blobStorage{bucket: bucket}, nil
}

// Save writes the data under key with the given content type.
func (b *blobStorage) Save(ctx context.Context, key, contentType string, data io.Reader) error {
	writer, err := b.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to open blob writer: %w", err)
	}

	if _, err := io.Copy(writer, data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return writer.Close()
}

// Close releases the underlying bucket.
func (b *blobStorage) Close() error {
	return b.bucket.Close()
}

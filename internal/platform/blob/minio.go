// Copyright (c) 2026 LitMT. All rights reserved.

package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/litmt/litmt/pkg/uuid"
)

// bucketCheckTimeout bounds the startup bucket-ensure round trip.
const bucketCheckTimeout = 5 * time.Second

// MinioStore implements [Store] against MinIO or any S3-compatible backend.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// Options carries the connection settings for [NewMinioStore].
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore connects to the object store and ensures the bucket exists.
func NewMinioStore(ctx context.Context, options Options) (*MinioStore, error) {
	client, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: init minio client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, options.Bucket)
	if err != nil {
		return nil, fmt.Errorf("blob: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(checkCtx, options.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("blob: create bucket: %w", err)
		}
	}

	return &MinioStore{client: client, bucket: options.Bucket}, nil
}

// Put implements [Store].
func (store *MinioStore) Put(ctx context.Context, filename string, content []byte) (string, error) {
	id := uuid.New()

	putOptions := minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	}
	if filename != "" {
		putOptions.UserMetadata = map[string]string{"original-filename": filename}
	}

	_, err := store.client.PutObject(ctx, store.bucket, id,
		bytes.NewReader(content), int64(len(content)), putOptions)
	if err != nil {
		return "", fmt.Errorf("blob: put object: %w", err)
	}

	return id, nil
}

// Get implements [Store].
func (store *MinioStore) Get(ctx context.Context, id string) ([]byte, error) {
	object, err := store.client.GetObject(ctx, store.bucket, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("blob: get object: %w", err)
	}
	defer object.Close()

	// GetObject is lazy; the first read surfaces missing-object errors.
	content, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("blob: read object: %w", err)
	}

	return content, nil
}

// Delete implements [Store].
func (store *MinioStore) Delete(ctx context.Context, id string) error {
	if err := store.client.RemoveObject(ctx, store.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("blob: delete object: %w", err)
	}
	return nil
}

// Ping verifies that the object store is reachable.
func (store *MinioStore) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	if _, err := store.client.BucketExists(pingCtx, store.bucket); err != nil {
		return fmt.Errorf("blob: ping failed: %w", err)
	}
	return nil
}

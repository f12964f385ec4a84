// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package blob provides file storage for book sources and translation files.

Uploaded text files are kept out of the relational database; rows hold only
an opaque blob ID while the bytes live in an S3-compatible object store.

Core Responsibilities:

  - Identity: Every stored file gets a fresh, time-sortable UUID key.
  - Durability: Bytes survive independently of catalog row lifecycles.
  - Isolation: Callers never see bucket names or storage credentials.
*/
package blob

import "context"

// Store abstracts the object storage backend.
//
// # Why an interface?
//
// Domain services depend on this interface rather than the MinIO client so
// that unit tests can swap in an in-memory fake.
type Store interface {
	// Put stores the content and returns the generated blob ID.
	// The original filename is recorded as object metadata for operators;
	// the catalog keeps its own authoritative copy.
	Put(ctx context.Context, filename string, content []byte) (string, error)

	// Get returns the full content of the blob.
	Get(ctx context.Context, id string) ([]byte, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, id string) error
}

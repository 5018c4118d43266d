package storage

import (
	"context"
	"io"
)

// Adapter is the uniform storage contract implemented by every backend.
//
// Keys are "/"-delimited logical paths. Operations on different keys are
// independent and safe to run concurrently. Operations on the same key are
// not serialized: concurrent writers race and the last one wins.
type Adapter interface {
	// Init prepares adapter-wide state (e.g. confirms the root or bucket exists).
	Init(ctx context.Context) error
	// HealthCheck reports whether the backend is ready. It never mutates state.
	HealthCheck(ctx context.Context) bool
	// Create copies a temporary file to key and removes the temporary file afterwards,
	// whether or not the copy succeeded.
	Create(ctx context.Context, key string, file TempFile) error
	// CreateFromURL streams the body of a remote GET into key.
	CreateFromURL(ctx context.Context, key, url string) error
	// CreateFromStream drains r into key.
	CreateFromStream(ctx context.Context, key string, r io.Reader) error
	// ReadAsStream opens key for a single forward pass over its raw bytes.
	// The caller must close the returned reader.
	ReadAsStream(ctx context.Context, key string) (io.ReadCloser, error)
	// Read returns the whole content stored at key.
	Read(ctx context.Context, key string) ([]byte, error)
	// ListDirectory returns the names of the immediate children of key.
	ListDirectory(ctx context.Context, key string) ([]string, error)
	// Delete removes key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error
}

// TempFile is a caller-provided temporary file whose cleanup is handed over to the adapter.
type TempFile struct {
	// Path is the location of the file on the local filesystem.
	Path string
}

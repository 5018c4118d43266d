package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectStore implements Adapter on an S3-compatible bucket.
//
// Keys map to object names with CleanKey. Directories are prefixes; an empty
// "prefix/" object marks a directory that has no children yet.
type ObjectStore struct {
	client  Client
	bucket  string
	fetcher *Fetcher
}

// NewObjectStore creates an ObjectStore over client and bucket.
func NewObjectStore(client Client, bucket string, fetcher *Fetcher) *ObjectStore {
	if fetcher == nil {
		fetcher = NewFetcher(0)
	}
	return &ObjectStore{client: client, bucket: bucket, fetcher: fetcher}
}

// Init creates the bucket when it does not exist yet.
func (s *ObjectStore) Init(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return newError("init", "", ErrIOFailure, fmt.Errorf("failed to check bucket existence: %w", err))
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return newError("init", "", ErrIOFailure, fmt.Errorf("failed to create bucket %s: %w", s.bucket, err))
	}
	return nil
}

// HealthCheck reports whether the bucket is reachable and exists.
func (s *ObjectStore) HealthCheck(ctx context.Context) bool {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	return err == nil && exists
}

// Create uploads file to key and removes file afterwards.
func (s *ObjectStore) Create(ctx context.Context, key string, file TempFile) (err error) {
	src := fileSource{path: file.Path}
	defer func() {
		err = errors.Join(err, wrapError("create", key, src.release()))
	}()

	name, err := s.objectName(key)
	if err != nil {
		return newError("create", key, ErrInvalidKey, err)
	}
	f, err := os.Open(file.Path)
	if err != nil {
		return newError("create", key, ErrIOFailure, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return newError("create", key, ErrIOFailure, err)
	}
	if _, err := s.client.PutObject(ctx, s.bucket, name, f, info.Size(), minio.PutObjectOptions{}); err != nil {
		return newError("create", key, ErrIOFailure, err)
	}
	return nil
}

// CreateFromURL streams the remote resource at url into key.
func (s *ObjectStore) CreateFromURL(ctx context.Context, key, url string) error {
	name, err := s.objectName(key)
	if err != nil {
		return newError("create_from_url", key, ErrInvalidKey, err)
	}
	body, err := s.fetcher.Open(ctx, url)
	if err != nil {
		return wrapError("create_from_url", key, err)
	}
	defer body.Close()

	in := &readTracker{r: body}
	if _, err := s.client.PutObject(ctx, s.bucket, name, in, -1, minio.PutObjectOptions{}); err != nil {
		if in.err != nil {
			return newError("create_from_url", key, ErrNetworkFailure, in.err)
		}
		return newError("create_from_url", key, ErrIOFailure, err)
	}
	return nil
}

// CreateFromStream drains r into key.
func (s *ObjectStore) CreateFromStream(ctx context.Context, key string, r io.Reader) error {
	name, err := s.objectName(key)
	if err != nil {
		return newError("create_from_stream", key, ErrInvalidKey, err)
	}
	if _, err := s.client.PutObject(ctx, s.bucket, name, r, -1, minio.PutObjectOptions{}); err != nil {
		return newError("create_from_stream", key, ErrIOFailure, err)
	}
	return nil
}

// ReadAsStream opens key for reading.
// The object is stat'ed first because GetObject only fails on the first read.
func (s *ObjectStore) ReadAsStream(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := s.objectName(key)
	if err != nil {
		return nil, newError("read_stream", key, ErrInvalidKey, err)
	}
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		return nil, newError("read_stream", key, objectKind(err), err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, newError("read_stream", key, objectKind(err), err)
	}
	return obj, nil
}

// Read returns the entire content of key.
func (s *ObjectStore) Read(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.ReadAsStream(ctx, key)
	if err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Op = "read"
		}
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, newError("read", key, objectKind(err), err)
	}
	return data, nil
}

// ListDirectory returns the names of objects and prefixes directly under key.
// A prefix with neither children nor a marker object is reported as ErrNotFound.
func (s *ObjectStore) ListDirectory(ctx context.Context, key string) ([]string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return nil, newError("list", key, ErrInvalidKey, err)
	}
	prefix := ""
	if clean != "" {
		prefix = clean + "/"
	}

	found := clean == ""
	names := []string{}
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: false}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, newError("list", key, objectKind(obj.Err), obj.Err)
		}
		found = true
		name := strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), "/")
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if !found {
		return nil, newError("list", key, ErrNotFound, nil)
	}
	return names, nil
}

// Delete removes key. S3 deletes are idempotent, so a missing object succeeds.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	name, err := s.objectName(key)
	if err != nil {
		return newError("delete", key, ErrInvalidKey, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		if objectKind(err) == ErrNotFound {
			return nil
		}
		return newError("delete", key, ErrIOFailure, err)
	}
	return nil
}

func (s *ObjectStore) objectName(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if clean == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return clean, nil
}

func objectKind(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return ErrNotFound
	}
	return ErrIOFailure
}

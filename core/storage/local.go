package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Local implements Adapter on the local filesystem.
// Every key is resolved under root on each call; nothing is cached.
type Local struct {
	root    string
	fetcher *Fetcher
}

// NewLocal creates a Local adapter rooted at root.
// The root is treated as pre-validated. Call Init to make sure it exists.
func NewLocal(root string, fetcher *Fetcher) *Local {
	if fetcher == nil {
		fetcher = NewFetcher(0)
	}
	return &Local{root: root, fetcher: fetcher}
}

// Root returns the configured root directory.
func (l *Local) Root() string {
	return l.root
}

// Init creates the root directory if needed and checks that it is a directory.
func (l *Local) Init(_ context.Context) error {
	if err := os.MkdirAll(l.root, dirPerm); err != nil {
		return newError("init", "", ErrIOFailure, err)
	}
	info, err := os.Stat(l.root)
	if err != nil {
		return newError("init", "", ErrIOFailure, err)
	}
	if !info.IsDir() {
		return newError("init", "", ErrIOFailure, fmt.Errorf("root %s is not a directory", l.root))
	}
	return nil
}

// HealthCheck reports whether the root directory exists and is a directory.
func (l *Local) HealthCheck(_ context.Context) bool {
	info, err := os.Stat(l.root)
	return err == nil && info.IsDir()
}

// Create copies file into key and removes file afterwards.
func (l *Local) Create(ctx context.Context, key string, file TempFile) error {
	src := fileSource{path: file.Path}
	dest, err := l.filePath(key)
	if err != nil {
		// The temp file was handed over to us; release it even when the key is rejected.
		return errors.Join(newError("create", key, ErrInvalidKey, err), wrapError("create", key, src.release()))
	}
	return wrapError("create", key, transfer(ctx, dest, src))
}

// CreateFromURL streams the remote resource at url into key.
func (l *Local) CreateFromURL(ctx context.Context, key, url string) error {
	dest, err := l.filePath(key)
	if err != nil {
		return newError("create_from_url", key, ErrInvalidKey, err)
	}
	return wrapError("create_from_url", key, transfer(ctx, dest, urlSource{fetcher: l.fetcher, url: url}))
}

// CreateFromStream drains r into key.
func (l *Local) CreateFromStream(ctx context.Context, key string, r io.Reader) error {
	dest, err := l.filePath(key)
	if err != nil {
		return newError("create_from_stream", key, ErrInvalidKey, err)
	}
	return wrapError("create_from_stream", key, transfer(ctx, dest, streamSource{r: r}))
}

// ReadAsStream opens key for reading. The stream yields raw bytes.
func (l *Local) ReadAsStream(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := l.filePath(key)
	if err != nil {
		return nil, newError("read_stream", key, ErrInvalidKey, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, newError("read_stream", key, fsKind(err), err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, newError("read_stream", key, ErrIOFailure, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, newError("read_stream", key, ErrIOFailure, fmt.Errorf("%s is a directory", key))
	}
	return f, nil
}

// Read returns the entire content of key.
func (l *Local) Read(_ context.Context, key string) ([]byte, error) {
	path, err := l.filePath(key)
	if err != nil {
		return nil, newError("read", key, ErrInvalidKey, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError("read", key, fsKind(err), err)
	}
	return data, nil
}

// ListDirectory returns the names of the entries directly under key.
func (l *Local) ListDirectory(_ context.Context, key string) ([]string, error) {
	path, err := Resolve(l.root, key)
	if err != nil {
		return nil, newError("list", key, ErrInvalidKey, err)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, newError("list", key, fsKind(err), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Delete removes the file at key. A missing file is not an error.
// Directories are never removed, even when empty.
func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.filePath(key)
	if err != nil {
		return newError("delete", key, ErrInvalidKey, err)
	}
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return newError("delete", key, ErrIOFailure, err)
	}
	if info.IsDir() {
		return newError("delete", key, ErrIOFailure, fmt.Errorf("%s is a directory", key))
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return newError("delete", key, ErrIOFailure, err)
	}
	return nil
}

// filePath resolves key and rejects keys that point at the root itself.
func (l *Local) filePath(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if clean == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return Resolve(l.root, clean)
}

func fsKind(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return ErrIOFailure
}

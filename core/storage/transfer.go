package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// source is one of the three things a transfer can read from.
type source interface {
	// open returns the byte stream. Failing here must leave no trace on disk.
	open(ctx context.Context) (io.ReadCloser, error)
	// readKind is the error kind reported when reading the stream fails mid-transfer.
	readKind() error
	// release frees resources tied to the source. It runs on every exit path.
	release() error
}

// fileSource reads a temporary file and deletes it on release.
type fileSource struct {
	path string
}

func (s fileSource) open(context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open source: %w", ErrIOFailure, err)
	}
	return f, nil
}

func (fileSource) readKind() error { return ErrIOFailure }

func (s fileSource) release() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove source: %w", ErrIOFailure, err)
	}
	return nil
}

// urlSource streams the body of a remote GET.
type urlSource struct {
	fetcher *Fetcher
	url     string
}

func (s urlSource) open(ctx context.Context) (io.ReadCloser, error) {
	return s.fetcher.Open(ctx, s.url)
}

func (urlSource) readKind() error { return ErrNetworkFailure }
func (urlSource) release() error  { return nil }

// streamSource wraps a caller-owned reader. The caller keeps ownership, so
// closing and releasing are no-ops.
type streamSource struct {
	r io.Reader
}

func (s streamSource) open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(s.r), nil
}

func (streamSource) readKind() error { return ErrIOFailure }
func (streamSource) release() error  { return nil }

// readTracker remembers the first read error so it can be told apart from write errors.
type readTracker struct {
	r   io.Reader
	err error
}

func (t *readTracker) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}

// transfer copies src into the file at dest.
//
// The source is opened before anything touches the filesystem. The parent
// directory of dest is created if missing. If the copy fails, the partial
// destination file is removed before the error is returned. src is released
// on every path and a release error is never dropped.
func transfer(ctx context.Context, dest string, src source) (err error) {
	defer func() {
		err = errors.Join(err, src.release())
	}()

	rc, err := src.open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrIOFailure, err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: create destination: %w", ErrIOFailure, err)
	}

	in := &readTracker{r: rc}
	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr == nil && closeErr == nil {
		return nil
	}

	var failure error
	switch {
	case in.err != nil:
		failure = fmt.Errorf("%w: read source: %w", src.readKind(), in.err)
	case copyErr != nil:
		failure = fmt.Errorf("%w: write destination: %w", ErrIOFailure, copyErr)
	default:
		failure = fmt.Errorf("%w: close destination: %w", ErrIOFailure, closeErr)
	}
	if rmErr := os.Remove(dest); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		failure = errors.Join(failure, fmt.Errorf("%w: remove partial destination: %w", ErrIOFailure, rmErr))
	}
	return failure
}

// Package storage provides the attachment storage contract and its backends.
//
// Callers persist and retrieve opaque binary attachments under a hierarchical,
// "/"-delimited logical key. The Adapter interface is the single contract; the
// backend is picked at construction time from configuration.
//
// # Backends
//
//   - Local: the reference backend. Keys map to files under a root directory.
//   - ObjectStore: an S3-compatible bucket reached through the MinIO Go client.
//
// # Keys
//
// CleanKey and Resolve turn a logical key into an object name or a physical
// path. Keys containing ".." segments are rejected with ErrInvalidKey, so a
// resolved path never leaves the root.
//
// # Transfers
//
// Data can come from a temporary file (Create), a remote URL (CreateFromURL)
// or a caller stream (CreateFromStream). Bytes are streamed to the destination
// and never buffered whole. Temporary files are removed on every exit path and
// a partially written destination is removed before a failure is returned.
// Writes are not atomic with respect to concurrent readers.
//
// # Errors
//
// Every failure is a *Error whose Kind is one of ErrInvalidKey, ErrNotFound,
// ErrNetworkFailure or ErrIOFailure. Nothing is retried or logged here.
//
// # Limitations
//
// Two writers on the same key are not serialized; the last one to finish wins
// and a concurrent reader may observe a partial file.
//
// # Usage
//
//	adapter, err := storage.New(cfg.Storage)
//	if err := adapter.Init(ctx); err != nil { ... }
//	err = adapter.CreateFromURL(ctx, "imports/a/b/logo.png", "https://example.com/logo.png")
//	data, err := adapter.Read(ctx, "imports/a/b/logo.png")
package storage

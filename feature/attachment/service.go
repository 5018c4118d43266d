package attachment

import (
	"context"
	"io"

	"attachment-store/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service exposes the storage adapter to the HTTP layer and keeps the catalog in sync.
type Service struct {
	adapter   storage.Adapter
	catalog   *Catalog
	logger    *zap.Logger
	uploadDir string
}

// NewService creates a new attachment service. db may be nil.
func NewService(adapter storage.Adapter, logger *zap.Logger, db *gorm.DB, uploadDir string) *Service {
	return &Service{
		adapter:   adapter,
		catalog:   NewCatalog(db),
		logger:    logger,
		uploadDir: uploadDir,
	}
}

// Upload stores a staged upload. The staged file is consumed either way.
func (s *Service) Upload(ctx context.Context, key string, file storage.TempFile) error {
	if err := s.adapter.Create(ctx, key, file); err != nil {
		return err
	}
	s.record(ctx, key, SourceUpload, "")
	return nil
}

// Import downloads url into key.
func (s *Service) Import(ctx context.Context, key, url string) error {
	if err := s.adapter.CreateFromURL(ctx, key, url); err != nil {
		return err
	}
	s.record(ctx, key, SourceURL, url)
	return nil
}

// Put stores the bytes read from r under key.
func (s *Service) Put(ctx context.Context, key string, r io.Reader) error {
	if err := s.adapter.CreateFromStream(ctx, key, r); err != nil {
		return err
	}
	s.record(ctx, key, SourceStream, "")
	return nil
}

// Open returns a stream over the bytes stored at key.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.adapter.ReadAsStream(ctx, key)
}

// List returns the entries directly under key.
func (s *Service) List(ctx context.Context, key string) ([]string, error) {
	return s.adapter.ListDirectory(ctx, key)
}

// Remove deletes key and its catalog entry.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.adapter.Delete(ctx, key); err != nil {
		return err
	}
	if s.catalog != nil {
		if err := s.catalog.Forget(ctx, key); err != nil {
			s.logger.Warn("Failed to remove catalog entry", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// Healthy reports whether the storage backend is ready.
func (s *Service) Healthy(ctx context.Context) bool {
	return s.adapter.HealthCheck(ctx)
}

// record writes a catalog entry. Catalog failures never fail the storage operation.
func (s *Service) record(ctx context.Context, key string, source Source, origin string) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Record(ctx, key, source, origin); err != nil {
		s.logger.Warn("Failed to record attachment", zap.String("key", key), zap.Error(err))
	}
}

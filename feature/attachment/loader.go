package attachment

import (
	"attachment-store/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new attachment feature.
func NewFeature(adapter storage.Adapter, logger *zap.Logger, db *gorm.DB, uploadDir string) *Feature {
	svc := NewService(adapter, logger, db, uploadDir)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "attachment"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load migrates the catalog, when present, and registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.service.catalog != nil {
		if err := f.service.catalog.Migrate(); err != nil {
			return err
		}
	}
	f.handler.RegisterRoutes(app)
	return nil
}

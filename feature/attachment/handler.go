package attachment

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"attachment-store/core/logger"
	"attachment-store/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for attachments.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the attachment routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/attachments")
	group.Post("/*", h.HandleCreate)
	group.Put("/*", h.HandlePut)
	group.Get("/*", h.HandleRead)
	group.Delete("/*", h.HandleDelete)

	app.Get("/directories/*", h.HandleList)
	app.Get("/health", h.HandleHealth)
}

type importRequest struct {
	URL string `json:"url"`
}

// HandleCreate stores a multipart upload, or imports a remote URL given as JSON.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	key := c.Params("*")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("key", key))

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing multipart field \"file\""})
		}

		staged := filepath.Join(h.stagingDir(), "upload-"+uuid.NewString())
		if err := c.SaveFile(fh, staged); err != nil {
			_ = os.Remove(staged)
			l.Error("Failed to stage upload", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to stage upload", "key": key})
		}

		if err := h.service.Upload(c.Context(), key, storage.TempFile{Path: staged}); err != nil {
			return h.fail(c, l, "Upload failed", err)
		}
		l.Info("Attachment uploaded", zap.Int64("size", fh.Size))
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
	}

	var req importRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expected multipart upload or {\"url\": ...}"})
	}
	if err := h.service.Import(c.Context(), key, req.URL); err != nil {
		return h.fail(c, l, "Import failed", err)
	}
	l.Info("Attachment imported", zap.String("url", req.URL))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
}

// HandlePut streams the raw request body into the key.
func (h *Handler) HandlePut(c *fiber.Ctx) error {
	key := c.Params("*")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("key", key))

	// Body() drains and closes the request stream, so it is only a fallback
	// for servers that do not stream request bodies.
	body := c.Context().RequestBodyStream()
	if body == nil {
		body = bytes.NewReader(c.Body())
	}

	if err := h.service.Put(c.Context(), key, body); err != nil {
		return h.fail(c, l, "Put failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
}

// HandleRead streams the stored bytes back.
func (h *Handler) HandleRead(c *fiber.Ctx) error {
	key := c.Params("*")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("key", key))

	rc, err := h.service.Open(c.Context(), key)
	if err != nil {
		return h.fail(c, l, "Read failed", err)
	}

	if ext := path.Ext(key); ext != "" {
		c.Type(strings.TrimPrefix(ext, "."))
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	// Fiber closes rc once the response has been written.
	return c.SendStream(rc)
}

// HandleDelete removes the key.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	key := c.Params("*")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("key", key))

	if err := h.service.Remove(c.Context(), key); err != nil {
		return h.fail(c, l, "Delete failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleList lists the entries directly under a key.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	key := c.Params("*")
	l := logger.WithRayID(h.service.logger, c).With(zap.String("key", key))

	entries, err := h.service.List(c.Context(), key)
	if err != nil {
		return h.fail(c, l, "List failed", err)
	}
	return c.JSON(fiber.Map{"key": key, "entries": entries})
}

// HandleHealth reports storage readiness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if !h.service.Healthy(c.Context()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) stagingDir() string {
	if h.service.uploadDir != "" {
		return h.service.uploadDir
	}
	return os.TempDir()
}

// fail maps a storage error kind to an HTTP status.
// The cause may carry server paths, so it is logged and never returned to the client.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": errorText(err), "key": c.Params("*")})
}

func errorText(err error) string {
	if kind := storage.KindOf(err); kind != nil {
		return kind.Error()
	}
	return "internal error"
}

func statusFor(err error) int {
	switch storage.KindOf(err) {
	case storage.ErrInvalidKey:
		return fiber.StatusBadRequest
	case storage.ErrNotFound:
		return fiber.StatusNotFound
	case storage.ErrNetworkFailure:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

package attachment

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"attachment-store/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, storage.Adapter) {
	t.Helper()
	adapter := newTestAdapter(t)
	app := fiber.New()
	NewHandler(NewService(adapter, zap.NewNop(), nil, t.TempDir())).RegisterRoutes(app)
	return app, adapter
}

func TestHandlePutAndRead(t *testing.T) {
	app, _ := setupTestApp(t)
	payload := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0xFF}

	req := httptest.NewRequest("PUT", "/attachments/img/logo.png", bytes.NewReader(payload))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/attachments/img/logo.png", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))

	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func newStreamingApp(t *testing.T) (*fiber.App, storage.Adapter) {
	t.Helper()
	adapter := newTestAdapter(t)
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             16 << 20,
		StreamRequestBody:     true,
	})
	NewHandler(NewService(adapter, zap.NewNop(), nil, t.TempDir())).RegisterRoutes(app)
	return app, adapter
}

func TestHandlePut_StreamedBody(t *testing.T) {
	app, adapter := newStreamingApp(t)
	payload := bytes.Repeat([]byte{0x00, 0xFF, 0x7F, 0x80}, 5<<18)

	req := httptest.NewRequest("PUT", "/attachments/big/blob.bin", bytes.NewReader(payload))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data, err := adapter.Read(context.Background(), "big/blob.bin")
	require.NoError(t, err)
	assert.Equal(t, len(payload), len(data))
	assert.Equal(t, payload, data)
}

func TestHandlePut_ClientDisconnects(t *testing.T) {
	app, adapter := newStreamingApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	defer func() { _ = app.Shutdown() }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(10*time.Second)))

	// Announce 1MiB but send only the first 64KiB before closing our side.
	_, err = fmt.Fprintf(conn, "PUT /attachments/uploads/cut.bin HTTP/1.1\r\n"+
		"Host: attachments.test\r\n"+
		"Content-Type: application/octet-stream\r\n"+
		"Content-Length: %d\r\n\r\n", 1<<20)
	require.NoError(t, err)
	_, err = conn.Write(bytes.Repeat([]byte("a"), 64<<10))
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEqual(t, fiber.StatusCreated, resp.StatusCode)

	_, err = adapter.Read(context.Background(), "uploads/cut.bin")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHandleRead_ErrorBodyHidesCause(t *testing.T) {
	app, adapter := setupTestApp(t)
	require.NoError(t, adapter.CreateFromStream(context.Background(), "folder/inner.txt", bytes.NewReader([]byte("x"))))
	root := adapter.(*storage.Local).Root()

	resp, err := app.Test(httptest.NewRequest("GET", "/attachments/folder", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), root)

	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, storage.ErrIOFailure.Error(), body["error"])
	assert.Equal(t, "folder", body["key"])
}

func TestHandleCreate_Multipart(t *testing.T) {
	app, adapter := setupTestApp(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.7 binary"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/attachments/docs/2024/report.pdf", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data, err := adapter.Read(context.Background(), "docs/2024/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 binary", string(data))
}

func TestHandleCreate_Multipart_StagedFileRemoved(t *testing.T) {
	adapter := newTestAdapter(t)
	staging := t.TempDir()
	app := fiber.New()
	NewHandler(NewService(adapter, zap.NewNop(), nil, staging)).RegisterRoutes(app)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "a.bin")
	require.NoError(t, err)
	_, _ = part.Write([]byte("abc"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/attachments/a.bin", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	left, err := filepath.Glob(filepath.Join(staging, "upload-*"))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestHandleCreate_URL(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/file.csv" {
			_, _ = w.Write([]byte("a,b\n1,2\n"))
			return
		}
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer remote.Close()

	app, adapter := setupTestApp(t)

	t.Run("Imported", func(t *testing.T) {
		body := fmt.Sprintf(`{"url": %q}`, remote.URL+"/file.csv")
		req := httptest.NewRequest("POST", "/attachments/imports/file.csv", bytes.NewReader([]byte(body)))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		data, err := adapter.Read(context.Background(), "imports/file.csv")
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))
	})

	t.Run("UpstreamRejects", func(t *testing.T) {
		body := fmt.Sprintf(`{"url": %q}`, remote.URL+"/secret")
		req := httptest.NewRequest("POST", "/attachments/imports/secret", bytes.NewReader([]byte(body)))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

		_, err = adapter.Read(context.Background(), "imports/secret")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("MissingURL", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/attachments/imports/x", bytes.NewReader([]byte(`{}`)))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleRead_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/attachments/missing.txt", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleList(t *testing.T) {
	app, adapter := setupTestApp(t)
	ctx := context.Background()
	require.NoError(t, adapter.CreateFromStream(ctx, "dir/one", bytes.NewReader([]byte("1"))))
	require.NoError(t, adapter.CreateFromStream(ctx, "dir/two", bytes.NewReader([]byte("2"))))

	resp, err := app.Test(httptest.NewRequest("GET", "/directories/dir", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Key     string   `json:"key"`
		Entries []string `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"one", "two"}, body.Entries)

	resp, err = app.Test(httptest.NewRequest("GET", "/directories/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleDelete(t *testing.T) {
	app, adapter := setupTestApp(t)
	ctx := context.Background()
	require.NoError(t, adapter.CreateFromStream(ctx, "gone/soon", bytes.NewReader([]byte("x"))))

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/attachments/gone/soon", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	_, err := adapter.Read(ctx, "gone/soon")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHandleHealth(t *testing.T) {
	t.Run("Ready", func(t *testing.T) {
		app, _ := setupTestApp(t)
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("RootMissing", func(t *testing.T) {
		adapter := storage.NewLocal(filepath.Join(t.TempDir(), "never-created"), nil)
		app := fiber.New()
		NewHandler(NewService(adapter, zap.NewNop(), nil, "")).RegisterRoutes(app)

		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"InvalidKey", &storage.Error{Op: "read", Kind: storage.ErrInvalidKey}, fiber.StatusBadRequest},
		{"NotFound", &storage.Error{Op: "read", Kind: storage.ErrNotFound}, fiber.StatusNotFound},
		{"Network", &storage.Error{Op: "create_from_url", Kind: storage.ErrNetworkFailure}, fiber.StatusBadGateway},
		{"IO", &storage.Error{Op: "create", Kind: storage.ErrIOFailure}, fiber.StatusInternalServerError},
		{"Unclassified", assert.AnError, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

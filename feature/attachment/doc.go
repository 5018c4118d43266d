// Package attachment exposes the storage adapter over HTTP.
//
// The handlers are thin: they pull the logical key from the wildcard path
// segment, call the Service, and map storage error kinds to HTTP statuses
// (invalid key 400, not found 404, network failure 502, anything else 500).
//
// # HTTP Endpoints
//
//   - POST /attachments/{key} : multipart "file" upload, or JSON {"url": "..."} import.
//   - PUT /attachments/{key} : raw body stream.
//   - GET /attachments/{key} : stream the stored bytes.
//   - DELETE /attachments/{key} : remove (idempotent).
//   - GET /directories/{key} : list immediate children.
//   - GET /health : storage readiness.
//
// # Catalog
//
// When a database is configured, successful writes upsert a row in the
// "attachments" table and deletes remove it. Catalog errors are logged and
// never fail the request.
package attachment

// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// defines the listen port, the upload body limit and the staging directory for
// multipart uploads.
package server

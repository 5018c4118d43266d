package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// BodyLimitMB caps the size of upload request bodies.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"512"`
	// UploadDir is where multipart uploads are staged before they are handed to storage.
	// Empty means the OS temp directory.
	UploadDir string `mapstructure:"upload_dir" default:""`
}

// BodyLimit returns the body limit in bytes, falling back to 4MB like Fiber does.
func (c Config) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return c.BodyLimitMB * 1024 * 1024
}

package storage

// Config holds configuration for the attachment storage backend.
type Config struct {
	// Driver selects the backend: "local" or "minio".
	Driver string `mapstructure:"driver" default:"local"`
	// Root is the base directory of the local backend.
	Root string `mapstructure:"root" default:"./data/attachments"`
	// FetchTimeoutSeconds bounds remote fetches. Zero leaves them bounded only by the request context.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"0"`
	// Endpoint is the URL of the object storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket to store attachments in.
	Bucket string `mapstructure:"bucket" default:"attachments"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the object storage connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverLocal = "local"
	DriverMinio = "minio"
)

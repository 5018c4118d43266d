// Package config provides configuration management for the attachment store.
//
// It uses Viper to load configuration from environment variables and an
// optional .env file. Defaults live next to each field in a `default` struct
// tag.
//
// # Configuration Structure
//
//   - Server: HTTP port, upload body limit, upload staging directory
//   - Storage: backend driver, local root, MinIO/S3 credentials and bucket
//   - Log: logging level and format
//   - Database: optional catalog connection
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Root)
package config

// Package config provides configuration management for jobads-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults live next to each setting in the
// `default` struct tag of the owning package's Config.
//
// # Configuration Structure
//
// The Config struct replaces any ambient settings module: it is built once
// by the command and handed to the fetcher, the reconciler and the loop.
//   - Feed: base URL, endpoints, API key, request pacing, place and occupation filters
//   - Polling: interval between cycles and maximum number of cycles
//   - Database: SQLite file or MySQL connection details
//   - Watermark: backend (file, database, object) and the filtered start instant
//   - Storage: S3/MinIO credentials for the object watermark backend
//   - Lock: cross-process writer lock file
//   - Log: logging level and format
//   - Server: HTTP port and API key
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a narrow interface so that sync state
// (the watermark) can live in AWS S3 or a self-hosted MinIO instance when
// several hosts share one store, and so that tests can use the mock in
// core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket / EnsureBucket: bucket preparation.
//   - PutObject: Uploads content (with size and options).
//   - GetObject / StatObject: Retrieves content or metadata.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage

package watermark

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"jobads-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps the watermark as a small object in S3/MinIO.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string
}

// NewObjectStore creates an object-backed store.
func NewObjectStore(client storage.Client, bucket, object string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, object: object}
}

func (s *ObjectStore) Describe() string {
	return "object:" + s.bucket + "/" + s.object
}

func (s *ObjectStore) Read(ctx context.Context) (time.Time, error) {
	// GetObject is lazy in minio; stat first to get a clean not-found.
	if _, err := s.client.StatObject(ctx, s.bucket, s.object, minio.StatObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("stat watermark object: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return time.Time{}, fmt.Errorf("get watermark object: %w", err)
	}
	defer obj.Close()

	b, err := io.ReadAll(io.LimitReader(obj, 256))
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark object: %w", err)
	}
	return Parse(string(b))
}

func (s *ObjectStore) Write(ctx context.Context, t time.Time) error {
	value := Format(t)
	_, err := s.client.PutObject(ctx, s.bucket, s.object, strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return fmt.Errorf("put watermark object: %w", err)
	}
	return nil
}

package watermark

import (
	"fmt"

	"jobads-sync/core/storage"

	"gorm.io/gorm"
)

// New builds the store selected by cfg.Backend. db is only used by the
// database backend and client only by the object backend.
func New(cfg Config, db *gorm.DB, client storage.Client, bucket string) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Path), nil
	case BackendDatabase:
		if db == nil {
			return nil, fmt.Errorf("watermark backend %q needs a database", cfg.Backend)
		}
		s := NewDBStore(db, cfg.Key)
		if err := s.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate sync_state: %w", err)
		}
		return s, nil
	case BackendObject:
		if client == nil {
			return nil, fmt.Errorf("watermark backend %q needs a storage client", cfg.Backend)
		}
		return NewObjectStore(client, bucket, cfg.ObjectName), nil
	default:
		return nil, fmt.Errorf("unsupported watermark backend %q", cfg.Backend)
	}
}

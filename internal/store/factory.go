package store

import (
	"fmt"

	"creg/internal/config"
	"creg/internal/database"
	"creg/internal/registry"
)

// NewStoreFromConfig creates the Store backend named by cfg.Type. Sealing is
// applied by the caller, since it needs an unlocked key.
func NewStoreFromConfig(cfg config.StoreConfig) (registry.Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		db, err := database.NewDatabaseFromDataDir(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem store requires fs_root to be set")
		}
		fsStore, err := NewFileSystemStore(cfg.FSRoot)
		if err != nil {
			return nil, err
		}
		return fsStore, nil
	case "s3":
		s3Store, err := NewS3Store(S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	default:
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
}

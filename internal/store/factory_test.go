package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creg/internal/config"
	"creg/internal/database"
)

func TestNewStoreFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      func(t *testing.T) config.StoreConfig
		wantType string
		wantErr  bool
	}{
		{
			name:     "memory store",
			cfg:      func(t *testing.T) config.StoreConfig { return config.StoreConfig{Type: "memory"} },
			wantType: "*store.MemoryStore",
		},
		{
			name: "sqlite store",
			cfg: func(t *testing.T) config.StoreConfig {
				return config.StoreConfig{Type: "sqlite", DataDir: t.TempDir()}
			},
			wantType: "*database.SQLiteDatabase",
		},
		{
			name:    "sqlite store without data_dir",
			cfg:     func(t *testing.T) config.StoreConfig { return config.StoreConfig{Type: "sqlite"} },
			wantErr: true,
		},
		{
			name: "filesystem store",
			cfg: func(t *testing.T) config.StoreConfig {
				return config.StoreConfig{Type: "filesystem", FSRoot: filepath.Join(t.TempDir(), "fs")}
			},
			wantType: "*store.FileSystemStore",
		},
		{
			name:    "filesystem store without root",
			cfg:     func(t *testing.T) config.StoreConfig { return config.StoreConfig{Type: "filesystem"} },
			wantErr: true,
		},
		{
			name:    "s3 store without bucket",
			cfg:     func(t *testing.T) config.StoreConfig { return config.StoreConfig{Type: "s3"} },
			wantErr: true,
		},
		{
			name:    "unknown store type",
			cfg:     func(t *testing.T) config.StoreConfig { return config.StoreConfig{Type: "tape"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStoreFromConfig(tt.cfg(t))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { got.Close() })
			assert.Equal(t, tt.wantType, typeName(got))
		})
	}
}

func TestNewStoreFromConfig_SQLiteFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStoreFromConfig(config.StoreConfig{Type: "sqlite", DataDir: dir})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filepath.Join(dir, database.FileName), s.(*database.SQLiteDatabase).Path())
}

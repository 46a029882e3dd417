package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		InstanceID: "test-instance-abc",
		BaseDir:    "/home/user/.local/share/creg",
		LogDir:     "/home/user/.local/share/creg/log",
		LogLevel:   "debug",
		Store: StoreConfig{
			Type:        "s3",
			S3Bucket:    "registry",
			S3Prefix:    "prod",
			S3Region:    "eu-west-1",
			S3Endpoint:  "http://localhost:9000",
			S3PathStyle: true,
			Sealed:      true,
		},
		Ledger: LedgerConfig{Type: "sqlite", DataDir: "/home/user/.local/share/creg/db", RecordNotes: true},
		Moderation: ModerationConfig{
			BannedTerms: []string{"spam", "estafa"},
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/home/user/.local/share/creg/keys/creg.pub",
			PrivateKeyPath: "/home/user/.local/share/creg/keys/creg.key",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.InstanceID != original.InstanceID {
		t.Errorf("InstanceID = %q, want %q", got.InstanceID, original.InstanceID)
	}
	if got.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", got.LogLevel, "debug")
	}
	if got.Store != original.Store {
		t.Errorf("Store = %+v, want %+v", got.Store, original.Store)
	}
	if got.Ledger != original.Ledger {
		t.Errorf("Ledger = %+v, want %+v", got.Ledger, original.Ledger)
	}
	if len(got.Moderation.BannedTerms) != 2 || got.Moderation.BannedTerms[1] != "estafa" {
		t.Errorf("Moderation.BannedTerms = %v, want [spam estafa]", got.Moderation.BannedTerms)
	}
	if got.Encryption != original.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, original.Encryption)
	}
}

func TestManager_Read_TaggedUnion(t *testing.T) {
	input := `
instance_id = "i-1"

[store]
type = "filesystem"
fs_root = "/srv/creg"

[ledger]
type = "memory"
`
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.Store.Type != "filesystem" || cfg.Store.FSRoot != "/srv/creg" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Store.Sealed {
		t.Error("Store.Sealed = true, want false when omitted")
	}
	if cfg.Ledger.Type != "memory" {
		t.Errorf("Ledger.Type = %q, want %q", cfg.Ledger.Type, "memory")
	}
}

func TestManager_Read_Invalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("store = [")); err == nil {
		t.Fatal("Read() expected error for malformed toml")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("instance-1", "/data/creg")

	if cfg.InstanceID != "instance-1" {
		t.Errorf("InstanceID = %q, want %q", cfg.InstanceID, "instance-1")
	}
	if cfg.LogDir != "/data/creg/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/creg/log")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.DataDir != "/data/creg/db" {
		t.Errorf("Store = %+v, want sqlite at /data/creg/db", cfg.Store)
	}
	if cfg.Ledger.Type != "sqlite" || !cfg.Ledger.RecordNotes {
		t.Errorf("Ledger = %+v, want sqlite with notes", cfg.Ledger)
	}
	if cfg.Encryption.PublicKeyPath != "/data/creg/keys/creg.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/creg/keys/creg.pub")
	}
	if cfg.Encryption.PrivateKeyPath != "/data/creg/keys/creg.key" {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", cfg.Encryption.PrivateKeyPath, "/data/creg/keys/creg.key")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "creg.toml")
		cfg := NewConfig("i1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "creg.toml")
		cfg := NewConfig("i1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "creg.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Store = StoreConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.InstanceID != "read-test" {
			t.Errorf("InstanceID = %q, want %q", got.InstanceID, "read-test")
		}
		if got.Store.Type != "memory" {
			t.Errorf("Store.Type = %q, want %q", got.Store.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/creg.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}

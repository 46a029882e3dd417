package encryption

import (
	"bytes"
	"fmt"
	"testing"

	"creg/internal/config"
)

func TestTestEncryptor_Setup(t *testing.T) {
	t.Parallel()
	e := NewTestEncryptor()
	if err := e.Setup("any-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.setupCalled {
		t.Error("Setup() did not record that it was called")
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false, want true")
	}
}

func TestTestEncryptor_SealOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewTestEncryptor()
			sealed, err := Seal(e, tt.input)
			if err != nil {
				t.Fatalf("Seal() error = %v", err)
			}
			if !bytes.HasPrefix(sealed, testHeader) {
				t.Error("sealed output does not start with test header")
			}

			ctx, err := e.Unlock("any-passphrase")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			opened, err := Open(ctx, sealed)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if !bytes.Equal(opened, tt.input) {
				t.Errorf("round-trip failed: got %q, want %q", opened, tt.input)
			}
		})
	}
}

func TestTestEncryptor_Deterministic(t *testing.T) {
	t.Parallel()

	e := NewTestEncryptor()
	a, _ := Seal(e, []byte("deterministic"))
	b, _ := Seal(e, []byte("deterministic"))
	if !bytes.Equal(a, b) {
		t.Error("same input produced different sealed output")
	}
}

func TestTestDecryptionContext_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "plain value", input: []byte("NOT_SEALED_value")},
		{name: "truncated header", input: []byte("CREG")},
		{name: "empty", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(&TestDecryptionContext{}, tt.input); err == nil {
				t.Error("Open() expected error")
			}
		})
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ     string
		want    string
		wantErr bool
	}{
		{typ: "", want: "*encryption.AgeEncryptor"},
		{typ: "age", want: "*encryption.AgeEncryptor"},
		{typ: "test", want: "*encryption.TestEncryptor"},
		{typ: "rot13", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			enc, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: tt.typ})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEncryptorFromConfig() error = %v", err)
			}
			if got := fmt.Sprintf("%T", enc); got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}
}

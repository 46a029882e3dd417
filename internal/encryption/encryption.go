package encryption

import (
	"bytes"
	"fmt"
	"io"
)

// Encryptor seals data with a public key. Sealing needs no user interaction;
// opening sealed data requires a DecryptionContext obtained from Unlock.
type Encryptor interface {
	// Setup generates and stores the key pair, protecting the private key
	// with passphrase. Called by `creg config keys init`.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key with passphrase. Returns an error if the
	// passphrase is wrong.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether the key pair exists.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory for the lifetime
// of a process. The unlocked key is never written to disk.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}

// Seal encrypts an in-memory value.
func Seal(enc Encryptor, plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := enc.Encrypt(bytes.NewReader(plaintext), &buf); err != nil {
		return nil, fmt.Errorf("sealing value: %w", err)
	}
	return buf.Bytes(), nil
}

// Open decrypts a value produced by Seal.
func Open(ctx DecryptionContext, ciphertext []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := ctx.Decrypt(bytes.NewReader(ciphertext), &buf); err != nil {
		return nil, fmt.Errorf("opening sealed value: %w", err)
	}
	return buf.Bytes(), nil
}

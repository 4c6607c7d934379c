// Package crypto seals and opens the persisted settings blobs. Key material
// lives in the OS keyring, generated once per installation; the ciphertext in
// the database is useless without it.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	serviceName = "voidstate"
	keyAccount  = "storage-encryption-key"
	keySize     = 32
	nonceSize   = 24
)

// ErrDecrypt is returned when a blob cannot be opened, either because it was
// tampered with or because the keyring entry no longer matches it.
var ErrDecrypt = errors.New("crypto: cannot decrypt record")

// Service encrypts and decrypts opaque byte payloads.
type Service interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

type keyringCrypto struct {
	key [keySize]byte
}

// NewKeyringCrypto loads the installation key from the OS keyring, creating
// and storing a fresh random key on first run.
func NewKeyringCrypto() (Service, error) {
	encoded, err := keyring.Get(serviceName, keyAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return createKey()
	}
	if err != nil {
		return nil, fmt.Errorf("read encryption key: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(raw) != keySize {
		return nil, fmt.Errorf("encryption key has %d bytes, want %d", len(raw), keySize)
	}

	c := &keyringCrypto{}
	copy(c.key[:], raw)
	return c, nil
}

func createKey() (Service, error) {
	c := &keyringCrypto{}
	if _, err := rand.Read(c.key[:]); err != nil {
		return nil, fmt.Errorf("generate encryption key: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(c.key[:])
	if err := keyring.Set(serviceName, keyAccount, encoded); err != nil {
		return nil, fmt.Errorf("store encryption key: %w", err)
	}
	return c, nil
}

func (c *keyringCrypto) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &c.key), nil
}

func (c *keyringCrypto) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &c.key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}

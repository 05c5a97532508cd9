// Package secrets encrypts buyer PII before it reaches the ledger.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrBadCiphertext = errors.New("ciphertext is malformed or was sealed with a different key")

// Box is a symmetric string encryptor. The key material is any non-empty
// passphrase; it is stretched to the cipher's key size with SHA-256.
type Box struct {
	key [chacha20poly1305.KeySize]byte
}

func New(passphrase string) (*Box, error) {
	if passphrase == "" {
		return nil, errors.New("empty encryption key")
	}
	b := &Box{key: sha256.Sum256([]byte(passphrase))}
	return b, nil
}

// Seal encrypts plain and returns base64(nonce || ciphertext).
// Empty input round-trips to empty output.
func (b *Box) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	aead, err := chacha20poly1305.NewX(b.key[:])
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	out := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (b *Box) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrBadCiphertext
	}
	aead, err := chacha20poly1305.NewX(b.key[:])
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrBadCiphertext
	}
	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return "", ErrBadCiphertext
	}
	return string(plain), nil
}

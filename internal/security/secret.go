package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// SealedPrefix marks a value produced by SealSecret
const SealedPrefix = "sealed:v1:"

// scrypt parameters for passphrase key derivation
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	keyLen       = 32 // AES-256
	saltLen      = 16
	minPassBytes = 8
)

var (
	// ErrPassphraseRequired is returned when a sealed value is opened without a passphrase
	ErrPassphraseRequired = errors.New("secret is sealed but no passphrase is configured")

	// ErrSealedCorrupt is returned for sealed values that do not decode or authenticate
	ErrSealedCorrupt = errors.New("sealed secret is corrupt or the passphrase is wrong")
)

// IsSealed reports whether s was produced by SealSecret
func IsSealed(s string) bool {
	return strings.HasPrefix(s, SealedPrefix)
}

// SealSecret encrypts plaintext with AES-256-GCM under a key derived from
// passphrase with scrypt. The result is safe to keep in YAML or .env files.
func SealSecret(plaintext, passphrase string) (string, error) {
	if plaintext == "" {
		return "", errors.New("secret cannot be empty")
	}
	if len(passphrase) < minPassBytes {
		return "", fmt.Errorf("passphrase must be at least %d bytes", minPassBytes)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// salt | nonce | ciphertext+tag
	out := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, []byte(plaintext), []byte(SealedPrefix))
	return SealedPrefix + base64.RawURLEncoding.EncodeToString(out), nil
}

// OpenSecret returns the plaintext of a sealed value. Values without the
// sealed prefix are returned unchanged.
func OpenSecret(value, passphrase string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if passphrase == "" {
		return "", ErrPassphraseRequired
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, SealedPrefix))
	if err != nil {
		return "", ErrSealedCorrupt
	}
	if len(raw) < saltLen {
		return "", ErrSealedCorrupt
	}
	salt, rest := raw[:saltLen], raw[saltLen:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize()+gcm.Overhead() {
		return "", ErrSealedCorrupt
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte(SealedPrefix))
	if err != nil {
		return "", ErrSealedCorrupt
	}
	return string(plaintext), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

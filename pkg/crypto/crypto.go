package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

// Encryption at rest for TOTP shared secrets. The key is derived once from
// the deployment's secret and held for the process lifetime.

var (
	encryptionKey []byte

	ErrKeyNotSet          = errors.New("encryption key not set")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

func SetEncryptionKey(key string) error {
	if len(key) < 32 {
		return errors.New("encryption key must be at least 32 characters")
	}
	sum := sha256.Sum256([]byte(key))
	encryptionKey = sum[:]
	return nil
}

func IsKeySet() bool {
	return encryptionKey != nil
}

func newGCM() (cipher.AEAD, error) {
	if encryptionKey == nil {
		return nil, ErrKeyNotSet
	}
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func EncryptSecret(plaintext string) (string, error) {
	gcm, err := newGCM()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func DecryptSecret(encoded string) (string, error) {
	gcm, err := newGCM()
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	if len(data) < gcm.NonceSize() {
		return "", ErrCiphertextTooShort
	}

	nonce, cipherData := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, cipherData, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"chat-backend/internal/apperrors"
)

// AESCipher encrypts message payloads with AES-256-CTR. Key and IV are
// derived once from configuration, so encryption is deterministic and
// side-effect free.
type AESCipher struct {
	block cipher.Block
	iv    []byte
}

// New derives the key and IV from the configured secrets and builds the
// cipher. Both secrets are required.
func New(keySecret, ivSecret string) (*AESCipher, error) {
	if keySecret == "" || ivSecret == "" {
		return nil, errors.New("encryption key and iv must be configured")
	}

	key := deriveHash(keySecret, 32)
	iv := deriveHash(ivSecret, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &AESCipher{block: block, iv: iv}, nil
}

// deriveHash hashes the secret and keeps the first n hex characters,
// matching the key-stretching scheme the stored ciphertexts were written
// with.
func deriveHash(secret string, n int) []byte {
	sum := sha256.Sum256([]byte(secret))
	return []byte(hex.EncodeToString(sum[:]))[:n]
}

// Encrypt returns the base64-encoded ciphertext of plaintext.
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	out := make([]byte, len(plaintext))
	cipher.NewCTR(c.block, c.iv).XORKeyStream(out, []byte(plaintext))
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. A payload that is not valid base64 is treated
// as corrupted ciphertext.
func (c *AESCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CryptoFailure, "corrupted ciphertext", err)
	}

	out := make([]byte, len(raw))
	cipher.NewCTR(c.block, c.iv).XORKeyStream(out, raw)
	return string(out), nil
}

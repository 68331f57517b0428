// Package envelope implements the message-level text boundary of the cipher:
// a plaintext string and a passphrase in, a base64 blob of IV||ciphertext out,
// and the reverse. The payload layout is IV (8 bytes) followed by one or more
// 8-byte CBC ciphertext blocks.
package envelope

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"SaferVault/internal/pkg/encryption"
	"SaferVault/internal/pkg/encryption/modes"
	"SaferVault/internal/pkg/encryption/padding"
)

var (
	ErrInvalidEncoding    = errors.New("invalid base64 encoding")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrInvalidPlaintext   = errors.New("decrypted data is not valid UTF-8")
)

// Encrypt encrypts a text string under a passphrase and returns the base64
// blob of IV||ciphertext. A non-positive rounds value selects the default
// round count. The output is deterministic: the IV is derived from the key,
// so identical inputs always produce the same blob.
func Encrypt(plaintext, passphrase string, rounds int) (string, error) {
	key := encryption.DeriveKey(passphrase)
	cipher, err := encryption.NewSaferK(key, rounds)
	if err != nil {
		return "", err
	}
	iv := encryption.DeriveIV(key)

	padder := &padding.PKCS7Padding{}
	data := padder.Pad([]byte(plaintext), cipher.BlockSize())

	mode := &modes.CBCMode{}
	ciphertext, err := mode.Encrypt(cipher, data, iv)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, len(iv)+len(ciphertext))
	payload = append(payload, iv...)
	payload = append(payload, ciphertext...)

	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt reverses Encrypt. It fails with ErrInvalidEncoding when the blob is
// not valid base64, ErrCiphertextTooShort when the decoded payload has no
// room for an IV, padding.ErrInvalidPadding when unpadding validation fails
// (the usual symptom of a wrong passphrase), and ErrInvalidPlaintext when the
// recovered bytes are not valid UTF-8.
func Decrypt(blob, passphrase string, rounds int) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(payload) < encryption.SaferBlockSize {
		return "", fmt.Errorf("%w: decoded payload is %d bytes", ErrCiphertextTooShort, len(payload))
	}

	iv := payload[:encryption.SaferBlockSize]
	ciphertext := payload[encryption.SaferBlockSize:]

	key := encryption.DeriveKey(passphrase)
	cipher, err := encryption.NewSaferK(key, rounds)
	if err != nil {
		return "", err
	}

	mode := &modes.CBCMode{}
	data, err := mode.Decrypt(cipher, ciphertext, iv)
	if err != nil {
		return "", err
	}

	padder := &padding.PKCS7Padding{}
	data, err = padder.Unpad(data, cipher.BlockSize())
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", ErrInvalidPlaintext
	}
	return string(data), nil
}

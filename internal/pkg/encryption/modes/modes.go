package modes

import (
	"fmt"

	"SaferVault/internal/pkg/encryption"
)

// Mode is the contract for block cipher modes of operation. Inputs must
// already be padded to a multiple of the cipher's block size.
type Mode interface {
	Encrypt(cipher encryption.SymmetricCipher, plaintext []byte, iv []byte) ([]byte, error)
	Decrypt(cipher encryption.SymmetricCipher, ciphertext []byte, iv []byte) ([]byte, error)
	RequiresIV() bool
	Name() string
}

// ECBMode - Electronic Codebook Mode (no IV required)
type ECBMode struct{}

func (e *ECBMode) Name() string {
	return "ECB"
}

func (e *ECBMode) RequiresIV() bool {
	return false
}

func (e *ECBMode) Encrypt(cipher encryption.SymmetricCipher, plaintext []byte, iv []byte) ([]byte, error) {
	blockSize := cipher.BlockSize()
	if len(plaintext)%blockSize != 0 {
		return nil, fmt.Errorf("%w: plaintext length must be a multiple of %d", encryption.ErrInvalidBlockSize, blockSize)
	}

	ciphertext := make([]byte, len(plaintext))
	for i := 0; i < len(plaintext); i += blockSize {
		block, err := cipher.EncryptBlock(plaintext[i : i+blockSize])
		if err != nil {
			return nil, err
		}
		copy(ciphertext[i:], block)
	}

	return ciphertext, nil
}

func (e *ECBMode) Decrypt(cipher encryption.SymmetricCipher, ciphertext []byte, iv []byte) ([]byte, error) {
	blockSize := cipher.BlockSize()
	if len(ciphertext)%blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length must be a multiple of %d", encryption.ErrInvalidBlockSize, blockSize)
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += blockSize {
		block, err := cipher.DecryptBlock(ciphertext[i : i+blockSize])
		if err != nil {
			return nil, err
		}
		copy(plaintext[i:], block)
	}

	return plaintext, nil
}

// CBCMode - Cipher Block Chaining Mode. Each plaintext block is XORed with
// the previous ciphertext block (the IV for the first) before encryption.
type CBCMode struct{}

func (c *CBCMode) Name() string {
	return "CBC"
}

func (c *CBCMode) RequiresIV() bool {
	return true
}

func (c *CBCMode) Encrypt(cipher encryption.SymmetricCipher, plaintext []byte, iv []byte) ([]byte, error) {
	blockSize := cipher.BlockSize()
	if len(iv) != blockSize {
		return nil, fmt.Errorf("%w: IV length must be %d", encryption.ErrInvalidIV, blockSize)
	}
	if len(plaintext)%blockSize != 0 {
		return nil, fmt.Errorf("%w: plaintext length must be a multiple of %d", encryption.ErrInvalidBlockSize, blockSize)
	}

	ciphertext := make([]byte, len(plaintext))
	prev := make([]byte, blockSize)
	copy(prev, iv)

	block := make([]byte, blockSize)
	for i := 0; i < len(plaintext); i += blockSize {
		for j := 0; j < blockSize; j++ {
			block[j] = plaintext[i+j] ^ prev[j]
		}

		encrypted, err := cipher.EncryptBlock(block)
		if err != nil {
			return nil, err
		}
		copy(ciphertext[i:], encrypted)
		copy(prev, encrypted)
	}

	return ciphertext, nil
}

func (c *CBCMode) Decrypt(cipher encryption.SymmetricCipher, ciphertext []byte, iv []byte) ([]byte, error) {
	blockSize := cipher.BlockSize()
	if len(iv) != blockSize {
		return nil, fmt.Errorf("%w: IV length must be %d", encryption.ErrInvalidIV, blockSize)
	}
	if len(ciphertext)%blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length must be a multiple of %d", encryption.ErrInvalidBlockSize, blockSize)
	}

	plaintext := make([]byte, len(ciphertext))
	prev := make([]byte, blockSize)
	copy(prev, iv)

	for i := 0; i < len(ciphertext); i += blockSize {
		decrypted, err := cipher.DecryptBlock(ciphertext[i : i+blockSize])
		if err != nil {
			return nil, err
		}

		for j := 0; j < blockSize; j++ {
			plaintext[i+j] = decrypted[j] ^ prev[j]
		}
		// the chaining variable takes the ciphertext block, not the decrypted one
		copy(prev, ciphertext[i:i+blockSize])
	}

	return plaintext, nil
}

// GetMode returns a Mode implementation for the given mode name, or nil if
// the name is unknown.
func GetMode(name string) Mode {
	switch name {
	case "ECB":
		return &ECBMode{}
	case "CBC":
		return &CBCMode{}
	default:
		return nil
	}
}

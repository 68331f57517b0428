package encryption

import "errors"

var (
	ErrInvalidKeySize   = errors.New("invalid key size")
	ErrInvalidBlockSize = errors.New("invalid block size")
	ErrInvalidIV        = errors.New("invalid IV")
)

// SymmetricCipher is the interface that all block cipher implementations must satisfy.
// A constructed cipher holds its expanded round keys and is never mutated
// afterwards, so a single instance is safe for concurrent use.
type SymmetricCipher interface {
	// EncryptBlock encrypts a single block
	EncryptBlock(block []byte) ([]byte, error)

	// DecryptBlock decrypts a single block
	DecryptBlock(block []byte) ([]byte, error)

	// BlockSize returns the block size in bytes
	BlockSize() int

	// KeySize returns the required key size in bytes
	KeySize() int

	// Name returns the algorithm name
	Name() string
}

const (
	SaferBlockSize = 8  // 64-bit blocks (8 bytes)
	SaferKeySize   = 16 // 128-bit key (16 bytes)

	// SaferDefaultRounds is the recommended round count for the 128-bit key variant.
	SaferDefaultRounds = 10
)

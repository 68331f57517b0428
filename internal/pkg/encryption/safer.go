package encryption

import "fmt"

// Substitution tables for the SAFER-style byte nonlinearity:
// expTable[i] = 45^i mod 257 with the value 256 folded to 0, and logTable as
// its inverse with logTable[0] = 128 (the discrete log of 0 is undefined, so
// the reserved value from the SAFER description is substituted).
//
// Both tables are filled once at process start and never written again, so
// concurrent encrypt/decrypt calls may read them without coordination.
var (
	expTable [256]byte
	logTable [256]byte
)

func init() {
	y := 1 // 45^0
	for i := 0; i < 256; i++ {
		v := y
		if v == 256 {
			v = 0
		}
		expTable[i] = byte(v)
		y = (y * 45) % 257
	}

	for i, v := range expTable {
		if v != 0 {
			logTable[v] = byte(i)
		}
	}
	logTable[0] = 128
}

// SaferK is a Feistel cipher over 64-bit blocks with a 128-bit key, using the
// SAFER K-128 exp/log substitution and byte rotation key schedule.
type SaferK struct {
	rounds    int
	roundKeys [][]byte
}

// NewSaferK creates a new cipher with the given 16-byte key. A non-positive
// rounds value selects SaferDefaultRounds.
func NewSaferK(key []byte, rounds int) (*SaferK, error) {
	if len(key) != SaferKeySize {
		return nil, fmt.Errorf("%w: SAFER key must be %d bytes, got %d", ErrInvalidKeySize, SaferKeySize, len(key))
	}
	if rounds <= 0 {
		rounds = SaferDefaultRounds
	}

	cipher := &SaferK{rounds: rounds}
	cipher.expandKey(key)
	return cipher, nil
}

// BlockSize returns the block size of the cipher
func (c *SaferK) BlockSize() int {
	return SaferBlockSize
}

// KeySize returns the key size of the cipher
func (c *SaferK) KeySize() int {
	return SaferKeySize
}

// Rounds returns the configured round count
func (c *SaferK) Rounds() int {
	return c.rounds
}

// Name returns the cipher name
func (c *SaferK) Name() string {
	return "SAFER_K128"
}

// EncryptBlock encrypts a 64-bit block
func (c *SaferK) EncryptBlock(block []byte) ([]byte, error) {
	if len(block) != SaferBlockSize {
		return nil, fmt.Errorf("%w: block must be %d bytes, got %d", ErrInvalidBlockSize, SaferBlockSize, len(block))
	}

	left := make([]byte, 4)
	right := make([]byte, 4)
	copy(left, block[:4])
	copy(right, block[4:])

	for _, rk := range c.roundKeys {
		mixed, err := roundFunction(right, rk)
		if err != nil {
			return nil, err
		}
		for i := range left {
			left[i] ^= mixed[i]
		}
		left, right = right, left
	}

	out := make([]byte, SaferBlockSize)
	copy(out, left)
	copy(out[4:], right)
	return out, nil
}

// DecryptBlock decrypts a 64-bit block by walking the schedule in reverse
func (c *SaferK) DecryptBlock(block []byte) ([]byte, error) {
	if len(block) != SaferBlockSize {
		return nil, fmt.Errorf("%w: block must be %d bytes, got %d", ErrInvalidBlockSize, SaferBlockSize, len(block))
	}

	left := make([]byte, 4)
	right := make([]byte, 4)
	copy(left, block[:4])
	copy(right, block[4:])

	for r := c.rounds - 1; r >= 0; r-- {
		mixed, err := roundFunction(left, c.roundKeys[r])
		if err != nil {
			return nil, err
		}
		for i := range right {
			right[i] ^= mixed[i]
		}
		left, right = right, left
	}

	out := make([]byte, SaferBlockSize)
	copy(out, left)
	copy(out[4:], right)
	return out, nil
}

// expandKey derives the round subkeys: each round emits the first 8 bytes of
// the key state, then every state byte is rotated left by 6 bits.
func (c *SaferK) expandKey(key []byte) {
	state := make([]byte, SaferKeySize)
	copy(state, key)

	c.roundKeys = make([][]byte, 0, c.rounds)
	for r := 0; r < c.rounds; r++ {
		rk := make([]byte, SaferBlockSize)
		copy(rk, state[:SaferBlockSize])
		c.roundKeys = append(c.roundKeys, rk)

		for i, b := range state {
			state[i] = rotlByte6(b)
		}
	}
}

// roundFunction mixes a 4-byte half block under the first 4 bytes of a round
// key: XOR with the subkey, exp substitution at even positions and log at odd
// ones, then a PHT-style linear mix per byte pair. The function is not
// invertible on its own; the Feistel structure does not require it to be.
func roundFunction(half []byte, rk []byte) ([]byte, error) {
	if len(half) < 4 {
		return nil, fmt.Errorf("%w: round function input must be 4 bytes", ErrInvalidBlockSize)
	}
	if len(rk) < 4 {
		return nil, fmt.Errorf("%w: round key must be at least 4 bytes", ErrInvalidKeySize)
	}

	x0 := expTable[half[0]^rk[0]]
	x1 := logTable[half[1]^rk[1]]
	x2 := expTable[half[2]^rk[2]]
	x3 := logTable[half[3]^rk[3]]

	// byte arithmetic wraps mod 256
	return []byte{2*x0 + x1, x0 + x1, 2*x2 + x3, x2 + x3}, nil
}

// rotlByte6 rotates a byte left by 6 bits
func rotlByte6(b byte) byte {
	return b<<6 | b>>2
}

// DeriveKey normalizes an arbitrary passphrase into a 128-bit key: UTF-8
// bytes, zero-padded or truncated to 16 bytes. An empty passphrase yields 16
// zero bytes; callers needing a strength guarantee must enforce it themselves.
// This truncation scheme is kept for compatibility with existing payloads and
// is a known weakness, not a KDF.
func DeriveKey(passphrase string) []byte {
	key := make([]byte, SaferKeySize)
	copy(key, passphrase)
	return key
}

// DeriveIV derives the 8-byte initialization vector from a 16-byte key: the
// first 8 key bytes, each XORed with 0xA5. The IV is deterministic, so an
// identical key and plaintext always produce identical ciphertext. Real
// systems need a random IV; this one reproduces the legacy payload format.
func DeriveIV(key []byte) []byte {
	iv := make([]byte, SaferBlockSize)
	for i := range iv {
		iv[i] = key[i] ^ 0xA5
	}
	return iv
}

package padding

import (
	"errors"
	"fmt"
)

// ErrInvalidPadding is returned when unpadding validation fails. It covers
// both a wrong pad-length byte and mismatched fill bytes; a wrong key and
// corrupted data present identically, so the two are deliberately not
// distinguished.
var ErrInvalidPadding = errors.New("invalid padding")

// Padder is the contract for byte-level padding schemes. Unpad takes the
// block size so that schemes can reject data whose length is not a multiple
// of it.
type Padder interface {
	Pad(data []byte, blockSize int) []byte
	Unpad(data []byte, blockSize int) ([]byte, error)
	Name() string
}

// PKCS7Padding appends padLen bytes each equal to padLen, where padLen is in
// [1, blockSize]. Already aligned input gains a full extra block, so padding
// is never zero-length and removal is always unambiguous.
type PKCS7Padding struct{}

func (p *PKCS7Padding) Name() string {
	return "PKCS7"
}

func (p *PKCS7Padding) Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	if padLen == 0 {
		padLen = blockSize
	}

	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func (p *PKCS7Padding) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded data length %d is not a positive multiple of %d", ErrInvalidPadding, len(data), blockSize)
	}

	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > blockSize {
		return nil, fmt.Errorf("%w: pad length byte %d out of range", ErrInvalidPadding, padLen)
	}

	for i := len(data) - padLen; i < len(data); i++ {
		if data[i] != byte(padLen) {
			return nil, fmt.Errorf("%w: pad fill bytes mismatch", ErrInvalidPadding)
		}
	}

	return data[:len(data)-padLen], nil
}

// ZeroPadding fills with zero bytes. Removal strips every trailing zero, so
// plaintexts ending in 0x00 do not survive a round trip; it exists for
// interop with peers that use it, not for the message envelope.
type ZeroPadding struct{}

func (z *ZeroPadding) Name() string {
	return "ZEROS"
}

func (z *ZeroPadding) Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	if padLen == 0 {
		padLen = blockSize
	}
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	return padded
}

func (z *ZeroPadding) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded data length %d is not a positive multiple of %d", ErrInvalidPadding, len(data), blockSize)
	}

	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return data[:end], nil
}

// ANSIX923Padding fills with zeros and records the pad length in the final byte.
type ANSIX923Padding struct{}

func (a *ANSIX923Padding) Name() string {
	return "ANSI_X923"
}

func (a *ANSIX923Padding) Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	if padLen == 0 {
		padLen = blockSize
	}
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	padded[len(padded)-1] = byte(padLen)
	return padded
}

func (a *ANSIX923Padding) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded data length %d is not a positive multiple of %d", ErrInvalidPadding, len(data), blockSize)
	}

	padLen := int(data[len(data)-1])
	if padLen < 1 || padLen > blockSize {
		return nil, fmt.Errorf("%w: pad length byte %d out of range", ErrInvalidPadding, padLen)
	}

	for i := len(data) - padLen; i < len(data)-1; i++ {
		if data[i] != 0 {
			return nil, fmt.Errorf("%w: pad fill bytes mismatch", ErrInvalidPadding)
		}
	}

	return data[:len(data)-padLen], nil
}

// GetPadder returns a Padder implementation for the given scheme name, or nil
// if the name is unknown.
func GetPadder(name string) Padder {
	switch name {
	case "PKCS7":
		return &PKCS7Padding{}
	case "ZEROS":
		return &ZeroPadding{}
	case "ANSI_X923":
		return &ANSIX923Padding{}
	default:
		return nil
	}
}

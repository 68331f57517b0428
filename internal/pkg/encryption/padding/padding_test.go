package padding

import (
	"bytes"
	"errors"
	"testing"
)

const testBlockSize = 8

func TestPKCS7PadBoundaries(t *testing.T) {
	padder := &PKCS7Padding{}

	// padded length is always a positive multiple of the block size and
	// strictly greater than the input length
	for _, size := range []int{0, 1, 7, 8, 9, 16} {
		data := bytes.Repeat([]byte{0x41}, size)
		padded := padder.Pad(data, testBlockSize)

		if len(padded) <= size {
			t.Errorf("size %d: padded length %d not greater than input", size, len(padded))
		}
		if len(padded)%testBlockSize != 0 {
			t.Errorf("size %d: padded length %d not a multiple of %d", size, len(padded), testBlockSize)
		}

		wantPad := testBlockSize - size%testBlockSize
		if wantPad == 0 {
			wantPad = testBlockSize
		}
		if len(padded) != size+wantPad {
			t.Errorf("size %d: padded length %d, want %d", size, len(padded), size+wantPad)
		}
		for i := size; i < len(padded); i++ {
			if padded[i] != byte(wantPad) {
				t.Errorf("size %d: fill byte %d is %#x, want %#x", size, i, padded[i], wantPad)
			}
		}
	}
}

func TestPKCS7RoundTrip(t *testing.T) {
	padder := &PKCS7Padding{}

	for _, size := range []int{0, 1, 7, 8, 9, 16, 31} {
		data := bytes.Repeat([]byte{0x5A}, size)
		padded := padder.Pad(data, testBlockSize)

		unpadded, err := padder.Unpad(padded, testBlockSize)
		if err != nil {
			t.Fatalf("size %d: Unpad failed: %v", size, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestPKCS7UnpadRejects(t *testing.T) {
	padder := &PKCS7Padding{}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not multiple of block size", make([]byte, 7)},
		{"zero pad length byte", append(bytes.Repeat([]byte{1}, 7), 0)},
		{"pad length above block size", append(bytes.Repeat([]byte{1}, 7), 9)},
		{"mismatched fill bytes", []byte{1, 2, 3, 4, 5, 3, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := padder.Unpad(tt.data, testBlockSize); !errors.Is(err, ErrInvalidPadding) {
				t.Fatalf("got %v, want ErrInvalidPadding", err)
			}
		})
	}
}

func TestZeroPaddingRoundTrip(t *testing.T) {
	padder := &ZeroPadding{}

	data := []byte("no trailing zeros")
	padded := padder.Pad(data, testBlockSize)
	if len(padded)%testBlockSize != 0 || len(padded) <= len(data) {
		t.Fatalf("bad padded length %d", len(padded))
	}

	unpadded, err := padder.Unpad(padded, testBlockSize)
	if err != nil {
		t.Fatalf("Unpad failed: %v", err)
	}
	if !bytes.Equal(unpadded, data) {
		t.Fatalf("round trip mismatch: %q", unpadded)
	}
}

func TestANSIX923RoundTrip(t *testing.T) {
	padder := &ANSIX923Padding{}

	for _, size := range []int{0, 3, 8, 13} {
		data := bytes.Repeat([]byte{0xC3}, size)
		padded := padder.Pad(data, testBlockSize)

		unpadded, err := padder.Unpad(padded, testBlockSize)
		if err != nil {
			t.Fatalf("size %d: Unpad failed: %v", size, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Fatalf("size %d: round trip mismatch", size)
		}
	}
}

func TestANSIX923UnpadRejectsNonZeroFill(t *testing.T) {
	padder := &ANSIX923Padding{}

	data := []byte{1, 2, 3, 4, 5, 7, 0, 3}
	if _, err := padder.Unpad(data, testBlockSize); !errors.Is(err, ErrInvalidPadding) {
		t.Fatalf("got %v, want ErrInvalidPadding", err)
	}
}

func TestGetPadder(t *testing.T) {
	for _, name := range []string{"PKCS7", "ZEROS", "ANSI_X923"} {
		padder := GetPadder(name)
		if padder == nil {
			t.Fatalf("GetPadder(%q) returned nil", name)
		}
		if padder.Name() != name {
			t.Errorf("GetPadder(%q).Name() = %q", name, padder.Name())
		}
	}
	if GetPadder("ISO_10126") != nil {
		t.Error("GetPadder should return nil for unknown schemes")
	}
}

package zlib

import (
	"bytes"
	"testing"

	deflatekit "github.com/elliotnunn/deflatekit"
)

func TestRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("abcde"), 200)
	for level := deflatekit.MinLevel; level <= deflatekit.MaxLevel; level++ {
		compressed, err := Compress(data, level)
		if err != nil {
			t.Fatalf("Compress(level=%d): %v", level, err)
		}
		got, err := Decompress(compressed, len(data), deflatekit.Limits{})
		if err != nil {
			t.Fatalf("Decompress(level=%d): %v", level, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("Decompress(level=%d): round trip mismatch", level)
		}
	}
}

func TestHeaderCheckModulus(t *testing.T) {
	compressed, err := Compress([]byte("hello"), 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	header := uint16(compressed[0])<<8 | uint16(compressed[1])
	if header%31 != 0 {
		t.Fatalf("zlib header %#04x is not a multiple of 31", header)
	}
	if compressed[0]&0xF != 8 {
		t.Fatalf("CM = %d, want 8", compressed[0]&0xF)
	}
}

func TestDecompressRejectsTruncatedTrailer(t *testing.T) {
	data := bytes.Repeat([]byte("truncate me "), 100)
	compressed, err := Compress(data, 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	_, err = Decompress(compressed[:len(compressed)-1], len(data), deflatekit.Limits{})
	if err == nil {
		t.Fatal("expected an error decompressing a truncated zlib trailer, got nil")
	}
}

func TestDecompressRejectsBadChecksum(t *testing.T) {
	data := []byte("checksum me")
	compressed, err := Compress(data, 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	compressed[len(compressed)-1] ^= 0xFF
	_, err = Decompress(compressed, len(data), deflatekit.Limits{})
	if err == nil {
		t.Fatal("expected an Adler-32 mismatch error, got nil")
	}
}

func TestDecompressRejectsBadMethod(t *testing.T) {
	compressed, err := Compress([]byte("x"), 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	compressed[0] = 0x09 // CM=9, not DEFLATE
	_, err = Decompress(compressed, 1, deflatekit.Limits{})
	if err == nil {
		t.Fatal("expected an error for an unsupported CM, got nil")
	}
}

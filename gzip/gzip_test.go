package gzip

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

func TestHeaderMagicAndMethod(t *testing.T) {
	compressed, err := Compress([]byte("hello"), 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if compressed[0] != 0x1F || compressed[1] != 0x8B {
		t.Fatalf("bad gzip magic: %#02x %#02x", compressed[0], compressed[1])
	}
	if compressed[2] != 8 {
		t.Fatalf("CM = %d, want 8", compressed[2])
	}
}

// TestScenarioLargePseudoRandomStream is spec.md §8 scenario 4: a 1 MiB
// deterministic pseudo-random stream, compressed at level 6, must round
// trip through gzip with a matching CRC-32 footer, and parallel chunking
// at the 256 KiB boundary must not change the recovered bytes.
func TestScenarioLargePseudoRandomStream(t *testing.T) {
	data := make([]byte, 1<<20)
	for i := range data {
		data[i] = byte((i * 7) % 251)
	}

	compressed, err := Compress(data, 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(compressed, len(data), deflatekit.Limits{})
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch on pseudo-random stream")
	}

	parallel, err := deflatekit.CompressDeflateParallel(data, 6)
	if err != nil {
		t.Fatalf("CompressDeflateParallel: %v", err)
	}
	gotParallel, err := deflatekit.DecompressDeflate(parallel, len(data), deflatekit.Limits{})
	if err != nil {
		t.Fatalf("DecompressDeflate(parallel): %v", err)
	}
	if !bytes.Equal(gotParallel, data) {
		t.Fatal("chunked parallel compression changed the recovered bytes")
	}
}

func TestDecompressRejectsBadCRC(t *testing.T) {
	data := []byte("crc check me")
	compressed, err := Compress(data, 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	compressed[len(compressed)-5] ^= 0xFF // flip a byte inside the CRC field
	_, err = Decompress(compressed, len(data), deflatekit.Limits{})
	if err == nil {
		t.Fatal("expected a CRC-32 mismatch error, got nil")
	}
}

func TestDecompressRejectsBadMagic(t *testing.T) {
	compressed, err := Compress([]byte("x"), 6)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	compressed[0] = 0x00
	_, err = Decompress(compressed, 1, deflatekit.Limits{})
	if err == nil {
		t.Fatal("expected an error for bad gzip magic, got nil")
	}
}

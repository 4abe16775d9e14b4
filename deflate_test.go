package deflatekit

import (
	"bytes"
	"testing"
)

func roundTripDeflate(t *testing.T, data []byte, level int) {
	t.Helper()
	compressed, err := CompressDeflate(data, level)
	if err != nil {
		t.Fatalf("CompressDeflate(level=%d): %v", level, err)
	}
	got, err := DecompressDeflate(compressed, len(data), Limits{})
	if err != nil {
		t.Fatalf("DecompressDeflate(level=%d): %v", level, err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("DecompressDeflate(level=%d): round trip mismatch", level)
	}
}

func TestScenarioEmptyInput(t *testing.T) {
	compressed, err := CompressDeflate(nil, 6)
	if err != nil {
		t.Fatalf("CompressDeflate: %v", err)
	}
	got, err := DecompressDeflate(compressed, 0, Limits{})
	if err != nil {
		t.Fatalf("DecompressDeflate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d bytes, want 0", len(got))
	}
}

func TestScenarioAllZero(t *testing.T) {
	data := make([]byte, 10000)
	compressed, err := CompressDeflate(data, 6)
	if err != nil {
		t.Fatalf("CompressDeflate: %v", err)
	}
	if len(compressed) > 50 {
		t.Fatalf("compressed %d zero bytes into %d bytes, want <= 50", len(data), len(compressed))
	}
	got, err := DecompressDeflate(compressed, len(data), Limits{})
	if err != nil {
		t.Fatalf("DecompressDeflate: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch on all-zero input")
	}
}

func TestScenarioRepeatedPattern(t *testing.T) {
	data := bytes.Repeat([]byte("abcde"), 200)
	roundTripDeflate(t, data, 9)
}

func TestScenarioTruncatedInput(t *testing.T) {
	data := bytes.Repeat([]byte("hello world "), 200)
	compressed, err := CompressDeflate(data, 6)
	if err != nil {
		t.Fatalf("CompressDeflate: %v", err)
	}
	_, err = DecompressDeflate(compressed[:len(compressed)/2], len(data), Limits{})
	if err == nil {
		t.Fatal("expected an error decompressing truncated input, got nil")
	}
}

func TestScenarioRatioGuard(t *testing.T) {
	small := []byte("0123456789")
	_, err := DecompressDeflate(small, 1_000_000, Limits{})
	if err == nil {
		t.Fatal("expected PolicyDenied for an oversized expectedSize, got nil")
	}
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("got kind %v, want KindInvalidInput", KindOf(err))
	}
}

func TestLevelValidation(t *testing.T) {
	if _, err := CompressDeflate([]byte("x"), -1); err == nil {
		t.Fatal("expected an error for level -1, got nil")
	}
	if _, err := CompressDeflate([]byte("x"), 13); err == nil {
		t.Fatal("expected an error for level 13, got nil")
	}
}

func TestRoundTripAllLevels(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 500)
	for level := MinLevel; level <= MaxLevel; level++ {
		roundTripDeflate(t, data, level)
	}
}

func TestCompressDeflateParallelMatchesSequential(t *testing.T) {
	data := make([]byte, 3*256*1024+17)
	for i := range data {
		data[i] = byte((i * 7) % 251)
	}

	parallel, err := CompressDeflateParallel(data, 6)
	if err != nil {
		t.Fatalf("CompressDeflateParallel: %v", err)
	}
	got, err := DecompressDeflate(parallel, len(data), Limits{})
	if err != nil {
		t.Fatalf("DecompressDeflate(parallel output): %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("parallel round trip mismatch")
	}
}

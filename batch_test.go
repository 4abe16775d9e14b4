package deflatekit

import (
	"bytes"
	"testing"
)

func TestCompressBatchDecompressBatchRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("first input"),
		bytes.Repeat([]byte("abc"), 1000),
		nil,
		make([]byte, 5000),
	}

	compressed, errs := CompressBatch(inputs, 6)
	for i, err := range errs {
		if err != nil {
			t.Fatalf("CompressBatch[%d]: %v", i, err)
		}
	}

	sizes := make([]int, len(inputs))
	for i, in := range inputs {
		sizes[i] = len(in)
	}

	decompressed, errs := DecompressBatch(compressed, sizes, Limits{})
	for i, err := range errs {
		if err != nil {
			t.Fatalf("DecompressBatch[%d]: %v", i, err)
		}
	}

	for i, want := range inputs {
		if !bytes.Equal(decompressed[i], want) {
			t.Fatalf("item %d: round trip mismatch", i)
		}
	}
}

func TestCompressBatchEmpty(t *testing.T) {
	results, errs := CompressBatch(nil, 6)
	if len(results) != 0 || len(errs) != 0 {
		t.Fatalf("got %d results, %d errors, want 0 of each", len(results), len(errs))
	}
}

func TestCompressBatchPreservesOrderOnError(t *testing.T) {
	inputs := [][]byte{
		[]byte("ok"),
		[]byte("also ok"),
	}
	_, errs := CompressBatch(inputs, 999) // invalid level
	for i, err := range errs {
		if err == nil {
			t.Fatalf("item %d: expected an invalid-level error, got nil", i)
		}
	}
}

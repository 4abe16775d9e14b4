package blockio

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/elliotnunn/deflatekit/internal/bitio"
	"github.com/elliotnunn/deflatekit/internal/parser"
)

func compress(t *testing.T, data []byte, level int) []byte {
	t.Helper()
	blocks := parser.Parse(data, level)
	if len(blocks) == 0 {
		// A valid DEFLATE stream always ends with a BFINAL=1 block, even
		// for empty input; Parse reports no blocks at all in that case, so
		// a caller (normally the root package) supplies an empty final one.
		blocks = []parser.Block{{}}
	}
	out := make([]byte, len(data)+len(data)/2+64)
	w := bitio.NewWriter(out)
	for i, blk := range blocks {
		final := i == len(blocks)-1
		if err := WriteBlock(w, data, &blk, final, level); err != nil {
			t.Fatalf("WriteBlock: %v", err)
		}
	}
	n, err := w.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return out[:n]
}

func roundTrip(t *testing.T, data []byte, level int) {
	t.Helper()
	compressed := compress(t, data, level)

	var r Reader
	dst := make([]byte, len(data))
	n, err := r.Decode(compressed, dst)
	if err != nil {
		t.Fatalf("Decode (level %d): %v", level, err)
	}
	if n != len(data) {
		t.Fatalf("Decode (level %d): got %d bytes, want %d", level, n, len(data))
	}
	if !bytes.Equal(dst[:n], data) {
		t.Fatalf("Decode (level %d): round trip mismatch", level)
	}
}

func testAllLevels(t *testing.T, name string, data []byte) {
	for _, level := range []int{0, 1, 6, 9, 11} {
		level := level
		t.Run(fmt.Sprintf("%s/level=%d", name, level), func(t *testing.T) { roundTrip(t, data, level) })
	}
}

func TestRoundTripEmpty(t *testing.T) {
	testAllLevels(t, "empty", nil)
}

func TestRoundTripAllZero(t *testing.T) {
	testAllLevels(t, "all-zero", make([]byte, 10000))
}

func TestRoundTripRepeatedPattern(t *testing.T) {
	data := bytes.Repeat([]byte("abcde"), 200)
	testAllLevels(t, "repeated-pattern", data)
}

func TestRoundTripShortOverlap(t *testing.T) {
	data := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testAllLevels(t, "overlap-dist1", data)

	data2 := bytes.Repeat([]byte("ab"), 1000)
	testAllLevels(t, "overlap-dist2", data2)

	data3 := bytes.Repeat([]byte("abcdefg"), 1000)
	testAllLevels(t, "overlap-dist7", data3)

	data4 := bytes.Repeat([]byte("0123456789"), 1000)
	testAllLevels(t, "overlap-dist10", data4)
}

func TestRoundTripRandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 65536+17)
	rng.Read(data)
	testAllLevels(t, "random", data)
}

func TestRoundTripTextLike(t *testing.T) {
	var buf bytes.Buffer
	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	rng := rand.New(rand.NewSource(2))
	for buf.Len() < 200000 {
		buf.WriteString(words[rng.Intn(len(words))])
		buf.WriteByte(' ')
	}
	testAllLevels(t, "text-like", buf.Bytes())
}

func TestRoundTripStoreSplitsAt64K(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := make([]byte, 200000)
	rng.Read(data)
	roundTrip(t, data, 0)
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	data := bytes.Repeat([]byte("hello world "), 500)
	compressed := compress(t, data, 6)

	var r Reader
	dst := make([]byte, len(data))
	_, err := r.Decode(compressed[:len(compressed)/2], dst)
	if err == nil {
		t.Fatal("Decode: expected an error on truncated input, got nil")
	}
}

func TestDecodeRejectsInsufficientOutputSpace(t *testing.T) {
	data := bytes.Repeat([]byte("hello world "), 500)
	compressed := compress(t, data, 6)

	var r Reader
	dst := make([]byte, len(data)/2)
	_, err := r.Decode(compressed, dst)
	if err == nil {
		t.Fatal("Decode: expected an error on undersized output buffer, got nil")
	}
}

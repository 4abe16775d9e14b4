package parser

import (
	"bytes"
	"math/rand"
	"testing"
)

func reassemble(t *testing.T, original []byte, blocks []Block) []byte {
	t.Helper()
	var out []byte
	pos := 0
	for _, b := range blocks {
		if b.Start != pos {
			t.Fatalf("block gap: expected start %d, got %d", pos, b.Start)
		}
		got := b.Reconstruct()
		if len(got) != b.End-b.Start {
			t.Fatalf("block [%d,%d): reconstructed length %d", b.Start, b.End, len(got))
		}
		out = append(out, got...)
		pos = b.End
	}
	if pos != len(original) {
		t.Fatalf("blocks cover [0,%d), want [0,%d)", pos, len(original))
	}
	return out
}

func testAllLevelsRoundTrip(t *testing.T, data []byte) {
	t.Helper()
	for level := 0; level <= 12; level++ {
		blocks := Parse(data, level)
		got := reassemble(t, data, blocks)
		if !bytes.Equal(got, data) {
			t.Fatalf("level %d: round trip mismatch (got %d bytes, want %d)", level, len(got), len(data))
		}
	}
}

func TestParseEmptyInput(t *testing.T) {
	testAllLevelsRoundTrip(t, nil)
}

func TestParseAllZero(t *testing.T) {
	testAllLevelsRoundTrip(t, make([]byte, 10000))
}

func TestParseRepeatedPattern(t *testing.T) {
	testAllLevelsRoundTrip(t, bytes.Repeat([]byte("abcde"), 200))
}

func TestParseRandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, 50000)
	rng.Read(data)
	testAllLevelsRoundTrip(t, data)
}

func TestParseTextLike(t *testing.T) {
	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	rng := rand.New(rand.NewSource(7))
	var buf bytes.Buffer
	for buf.Len() < 100000 {
		buf.WriteString(words[rng.Intn(len(words))])
		buf.WriteByte(' ')
	}
	testAllLevelsRoundTrip(t, buf.Bytes())
}

func TestParseStoreSplitsAt64K(t *testing.T) {
	data := make([]byte, 200000)
	blocks := Parse(data, 0)
	for _, b := range blocks {
		if b.End-b.Start > maxStoredBlockLength {
			t.Fatalf("stored block of length %d exceeds %d", b.End-b.Start, maxStoredBlockLength)
		}
	}
	reassemble(t, data, blocks)
}

func TestParseBlockSplitProducesMultipleBlocksOnMixedInput(t *testing.T) {
	// A long run of one highly compressible region followed by
	// incompressible random data should tend to trigger at least one
	// block split at level 6 (lazy-1, well within the splitter's range).
	rng := rand.New(rand.NewSource(3))
	compressible := bytes.Repeat([]byte{'a'}, 200000)
	random := make([]byte, 200000)
	rng.Read(random)
	data := append(append([]byte{}, compressible...), random...)

	blocks := Parse(data, 6)
	reassemble(t, data, blocks)
	if len(blocks) < 2 {
		t.Fatalf("expected more than one block for a sharply mixed input, got %d", len(blocks))
	}
}

func TestParseSequencesObeyLengthBounds(t *testing.T) {
	data := bytes.Repeat([]byte("mississippi"), 500)
	for level := 1; level <= 12; level++ {
		blocks := Parse(data, level)
		for _, b := range blocks {
			for _, s := range b.Sequences {
				if s.MatchLength == 0 {
					continue
				}
				if s.MatchLength < 3 || s.MatchLength > 258 {
					t.Fatalf("level %d: match length %d out of range", level, s.MatchLength)
				}
				if s.MatchDistance < 1 || s.MatchDistance > 32768 {
					t.Fatalf("level %d: match distance %d out of range", level, s.MatchDistance)
				}
			}
		}
	}
}

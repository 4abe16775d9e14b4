package chunked

import (
	"bytes"
	_ "embed"
	"io"
	"testing"

	"github.com/therootcompany/xz"
)

//go:embed testdata/oracle.xz
var oracleFixture []byte

// oraclePlaintext regenerates the deterministic 1 MiB buffer the oracle
// fixture was compressed from (data[i] = (i*7) mod 251), rather than
// keeping a second copy of the plaintext on disk.
func oraclePlaintext() []byte {
	data := make([]byte, 1<<20)
	for i := range data {
		data[i] = byte((i * 7) % 251)
	}
	return data
}

// TestOracleCrossCodec decodes a real xz-compressed fixture (produced by
// the system xz tool, an independent LZMA2 implementation) through
// therootcompany/xz and checks it reproduces the exact deterministic
// plaintext, as a check on the test harness's own fixture generation
// before that plaintext is used to exercise this package's chunking.
func TestOracleCrossCodec(t *testing.T) {
	r, err := xz.NewReader(bytes.NewReader(oracleFixture), xz.DefaultDictMax)
	if err != nil {
		t.Fatalf("xz.NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading xz stream: %v", err)
	}
	want := oraclePlaintext()
	if !bytes.Equal(got, want) {
		t.Fatalf("oracle fixture decoded to %d bytes, want %d bytes matching the deterministic formula", len(got), len(want))
	}
}

func roundTrip(t *testing.T, data []byte, level int) {
	t.Helper()
	compressed := Compress(data, level)
	dst := make([]byte, len(data))
	n, err := Decompress(compressed, dst)
	if err != nil {
		t.Fatalf("Decompress (level %d, %d bytes): %v", level, len(data), err)
	}
	if n != len(data) {
		t.Fatalf("Decompress (level %d, %d bytes): got %d bytes, want %d", level, len(data), n, len(data))
	}
	if !bytes.Equal(dst[:n], data) {
		t.Fatalf("Decompress (level %d, %d bytes): round trip mismatch", level, len(data))
	}
}

// TestChunkBoundaries exercises sizes that straddle ChunkSize so the
// sync-flush joins between independently-compressed chunks land at the
// boundary itself, one byte short of it, and one byte past it.
func TestChunkBoundaries(t *testing.T) {
	plain := oraclePlaintext()

	sizes := []int{
		0,
		1,
		ChunkSize - 1,
		ChunkSize,
		ChunkSize + 1,
		ChunkSize*2 - 1,
		ChunkSize * 2,
		ChunkSize*2 + 1,
		ChunkSize*3 + 17,
		len(plain),
	}

	for _, level := range []int{0, 1, 6, 9} {
		for _, size := range sizes {
			if size > len(plain) {
				continue
			}
			roundTrip(t, plain[:size], level)
		}
	}
}

// TestChunkOrderingPreserved uses data whose chunks are each distinguishable
// (a per-chunk constant byte run) so that if the worker pool ever raced
// the output back together out of order, the decoded bytes would land in
// the wrong place.
func TestChunkOrderingPreserved(t *testing.T) {
	const numChunks = 8
	data := make([]byte, numChunks*ChunkSize+100)
	for c := 0; c < numChunks; c++ {
		start := c * ChunkSize
		end := start + ChunkSize
		for i := start; i < end; i++ {
			data[i] = byte(c)
		}
	}
	for i := numChunks * ChunkSize; i < len(data); i++ {
		data[i] = 0xAB
	}

	roundTrip(t, data, 6)
}

func TestWorkerCountEnvOverride(t *testing.T) {
	t.Setenv(workerCountEnv, "3")
	if got := workerCount(); got != 3 {
		t.Fatalf("workerCount with %s=3: got %d", workerCountEnv, got)
	}

	t.Setenv(workerCountEnv, "not-a-number")
	defer func() {
		if recover() == nil {
			t.Fatal("workerCount: expected a panic on a malformed override, got none")
		}
	}()
	workerCount()
}

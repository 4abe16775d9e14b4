// Package chunked implements parallel DEFLATE compression by splitting
// large inputs into independently-compressed, sync-flush-joined segments,
// per spec.md §5: inputs over ChunkSize are split into ChunkSize chunks,
// each compressed by its own worker with its own parser/encoder state,
// every chunk but the last terminated with a sync-flush marker instead of
// a final block so the concatenated output is a single valid DEFLATE
// stream. Output order is restored by chunk index regardless of which
// worker finishes first.
//
// The worker pool is grounded on the teacher's prefetchThisFS in
// prefetch.go: a fixed number of goroutines launched with WaitGroup.Go,
// draining a channel of work items, generalized here from "walk a
// filesystem" to "compress a chunk."
package chunked

import (
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/elliotnunn/deflatekit/internal/bitio"
	"github.com/elliotnunn/deflatekit/internal/blockio"
	"github.com/elliotnunn/deflatekit/internal/parser"
)

// ChunkSize is spec.md §5's independent-compression unit size.
const ChunkSize = 256 * 1024

// workerCountEnv overrides the default worker count, matching memlimit.go's
// calcMemLimit shape: a hard-coded default, overridable by an environment
// variable, with a panic on a malformed (not a positive integer) value
// rather than silently falling back.
const workerCountEnv = "DEFLATEKIT_CHUNK_WORKERS"

func workerCount() int {
	if e := os.Getenv(workerCountEnv); e != "" {
		n, err := strconv.Atoi(e)
		if err != nil || n <= 0 {
			panic("malformed " + workerCountEnv + " environment variable, should be a positive integer: " + e)
		}
		return n
	}
	if n := runtime.GOMAXPROCS(-1); n > 0 {
		return n
	}
	return 1
}

type chunkJob struct {
	index int
	data  []byte
	final bool
}

// Compress splits data into ChunkSize chunks (a single chunk if data is
// smaller), compresses each independently at level across a worker pool,
// and concatenates the results in input order into one valid DEFLATE
// stream.
func Compress(data []byte, level int) []byte {
	if len(data) <= ChunkSize {
		return compressChunk(data, level, true)
	}

	var jobs []chunkJob
	for start, idx := 0, 0; start < len(data); start, idx = start+ChunkSize, idx+1 {
		end := start + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		jobs = append(jobs, chunkJob{index: idx, data: data[start:end], final: end == len(data)})
	}

	results := make([][]byte, len(jobs))
	work := make(chan chunkJob, len(jobs))
	for _, j := range jobs {
		work <- j
	}
	close(work)

	var wg sync.WaitGroup
	for range min(workerCount(), len(jobs)) {
		wg.Go(func() {
			for j := range work {
				results[j.index] = compressChunk(j.data, level, j.final)
			}
		})
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]byte, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// compressChunk runs the parser and block emitter over one chunk's bytes,
// terminating with a sync-flush marker (so more chunks can follow in the
// same bitstream) unless final is set, in which case the last emitted
// block carries BFINAL=1.
func compressChunk(data []byte, level int, final bool) []byte {
	blocks := parser.Parse(data, level)
	if len(blocks) == 0 {
		blocks = []parser.Block{{}}
	}

	out := make([]byte, len(data)+len(data)/8+256)
	w := bitio.NewWriter(out)
	for i, blk := range blocks {
		blockFinal := final && i == len(blocks)-1
		if err := blockio.WriteBlock(w, data, &blk, blockFinal, level); err != nil {
			panic("chunked: output buffer undersized: " + err.Error())
		}
	}
	if !final {
		if err := blockio.WriteSyncFlush(w); err != nil {
			panic("chunked: output buffer undersized: " + err.Error())
		}
	}

	n, err := w.Flush()
	if err != nil {
		panic("chunked: output buffer undersized: " + err.Error())
	}
	return out[:n]
}

// Decompress reads a stream Compress produced (or any single valid
// DEFLATE stream whose sync-flush joins happen to fall at the same
// points) back into dst. The sync-flush markers make the concatenated
// chunks indistinguishable from an ordinary multi-block stream, so a
// single sequential blockio.Reader suffices — chunked decompression does
// not parallelize the way compression does.
func Decompress(src, dst []byte) (int, error) {
	var r blockio.Reader
	return r.Decode(src, dst)
}

package deflatekit

import (
	"runtime"
	"sync"
)

// CompressBatch compresses each of inputs independently at level, spreading
// the work across up to runtime.GOMAXPROCS(-1) workers and returning results
// in input order. The first per-item error is reported back at that item's
// index; compression continues for the remaining items regardless.
func CompressBatch(inputs [][]byte, level int) ([][]byte, []error) {
	return batch(inputs, func(src []byte) ([]byte, error) {
		return CompressDeflate(src, level)
	})
}

// DecompressBatch decompresses each of inputs independently, expecting the
// corresponding entry in expectedSizes, spread the same way CompressBatch is.
func DecompressBatch(inputs [][]byte, expectedSizes []int, limits Limits) ([][]byte, []error) {
	return batch(indexedInputs(inputs, expectedSizes), func(item indexedInput) ([]byte, error) {
		return DecompressDeflate(item.data, item.expectedSize, limits)
	})
}

type indexedInput struct {
	data         []byte
	expectedSize int
}

func indexedInputs(inputs [][]byte, expectedSizes []int) []indexedInput {
	out := make([]indexedInput, len(inputs))
	for i, d := range inputs {
		out[i] = indexedInput{data: d, expectedSize: expectedSizes[i]}
	}
	return out
}

// batch runs work over each item of items across a worker pool, the same
// channel-of-jobs/wg.Go shape internal/chunked.Compress uses, generalized
// from "compress a chunk" to "run an arbitrary per-item operation."
func batch[T any](items []T, work func(T) ([]byte, error)) ([][]byte, []error) {
	results := make([][]byte, len(items))
	errs := make([]error, len(items))

	type job struct {
		index int
		item  T
	}
	jobs := make(chan job, len(items))
	for i, it := range items {
		jobs <- job{index: i, item: it}
	}
	close(jobs)

	workers := min(runtime.GOMAXPROCS(-1), len(items))
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for j := range jobs {
				results[j.index], errs[j.index] = work(j.item)
			}
		})
	}
	wg.Wait()

	return results, errs
}

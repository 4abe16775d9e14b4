package deflatekit

import (
	"fmt"

	"github.com/elliotnunn/deflatekit/internal/bitio"
	"github.com/elliotnunn/deflatekit/internal/blockio"
	"github.com/elliotnunn/deflatekit/internal/chunked"
	"github.com/elliotnunn/deflatekit/internal/codecerr"
	"github.com/elliotnunn/deflatekit/internal/parser"
)

// DeflateBound reports a destination buffer size guaranteed to hold the
// compressed output of any input of the given size, per spec.md's
// size + ceil(size/65535)*5 + 10 formula (one stored-block's worth of
// overhead per 65535-byte run, plus slack for the final block header).
func DeflateBound(size int) int {
	return size + ((size+65534)/65535)*5 + 10
}

// CompressDeflateInto compresses src into dst at the given level (an
// ErrInvalidInput error if outside [MinLevel,MaxLevel]) with flush controlling how
// the stream is terminated, returning the number of bytes written to dst.
func CompressDeflateInto(dst, src []byte, level int, flush FlushMode) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}

	blocks := parser.Parse(src, level)
	if len(blocks) == 0 {
		blocks = []parser.Block{{}}
	}

	w := bitio.NewWriter(dst)
	for i, blk := range blocks {
		final := flush == FlushFinish && i == len(blocks)-1
		if err := blockio.WriteBlock(w, src, &blk, final, level); err != nil {
			return 0, err
		}
	}
	if flush == FlushSync {
		if err := blockio.WriteSyncFlush(w); err != nil {
			return 0, err
		}
	}

	n, err := w.Flush()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", codecerr.ErrInsufficientSpace, err)
	}
	return n, nil
}

// CompressDeflate compresses src at the given level into a freshly
// allocated, exactly-sized buffer, terminating the stream (FlushFinish).
func CompressDeflate(src []byte, level int) ([]byte, error) {
	dst := make([]byte, DeflateBound(len(src)))
	n, err := CompressDeflateInto(dst, src, level, FlushFinish)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// CompressDeflateParallel compresses src at the given level, splitting
// inputs over internal/chunked.ChunkSize into independently-compressed,
// sync-flush-joined segments processed across a worker pool (internal/chunked,
// C11). Below the chunk threshold it behaves identically to CompressDeflate.
func CompressDeflateParallel(src []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	return chunked.Compress(src, level), nil
}

// DecompressDeflateInto decompresses src into dst, returning the number of
// bytes written. dst must be large enough to hold the whole output;
// InsufficientSpace is returned otherwise.
func DecompressDeflateInto(dst, src []byte) (int, error) {
	var r blockio.Reader
	return r.Decode(src, dst)
}

// DecompressDeflate decompresses src into a freshly allocated buffer of
// expectedSize bytes, first checking expectedSize against limits (the
// zero Limits value applies DefaultRatioLimit, with no memory cap unless
// DEFLATEKIT_MAX_MEMORY_GB is set).
func DecompressDeflate(src []byte, expectedSize int, limits Limits) ([]byte, error) {
	if err := limits.check(len(src), expectedSize); err != nil {
		return nil, err
	}
	dst := make([]byte, expectedSize)
	n, err := DecompressDeflateInto(dst, src)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

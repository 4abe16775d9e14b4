// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package bitio implements the packed little-endian bit writer and
// refilling bit reader that the DEFLATE bitstream is built on.
package bitio

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned by [Writer.Flush] once any write has failed
// (see [Writer.Failed]), normally because the destination slice had no
// room left for the requested bits.
var ErrShortBuffer = errors.New("bitio: destination buffer exhausted")

// Writer packs bits LSB-first into successive bytes of dst, following the
// DEFLATE convention that the first bit written becomes the low bit of the
// first byte. The accumulator is 64 bits wide so that callers writing up to
// 16 bits per call can be coalesced into infrequent 6-byte stores.
type Writer struct {
	dst    []byte
	pos    int
	acc    uint64
	nbits  uint
	failed bool
}

// NewWriter returns a Writer appending to dst starting at offset 0.
func NewWriter(dst []byte) *Writer {
	return &Writer{dst: dst}
}

// Len reports how many whole bytes have been committed to dst so far (not
// counting bits still pending in the accumulator).
func (w *Writer) Len() int { return w.pos }

// Failed reports whether a previous call ran out of destination space. Once
// set, the accumulator contents are unspecified and further calls are
// no-ops until the caller starts over with a bigger buffer.
func (w *Writer) Failed() bool { return w.failed }

// WriteBits appends the low n bits of bits to the stream. n must be <= 16;
// callers needing more must split the value themselves (see WriteBitsWide).
func (w *Writer) WriteBits(bits uint32, n uint) {
	if w.failed {
		return
	}
	w.acc |= uint64(bits) << w.nbits
	w.nbits += n
	if w.nbits >= 48 {
		w.flushWholeBytes()
	}
}

// WriteBitsWide appends the low n bits of bits to the stream, for n up to
// 32. It is the safe wrapper spec'd for callers that can't guarantee n<=16;
// internally it is split into two WriteBits calls.
func (w *Writer) WriteBitsWide(bits uint32, n uint) {
	if n <= 16 {
		w.WriteBits(bits, n)
		return
	}
	w.WriteBits(bits&0xFFFF, 16)
	w.WriteBits(bits>>16, n-16)
}

// flushWholeBytes stores six bytes of the accumulator, unaligned
// little-endian, once at least 48 bits are pending. This amortizes the
// store cost across many WriteBits calls while keeping the accumulator
// comfortably under 64 bits.
func (w *Writer) flushWholeBytes() {
	if w.pos+8 > len(w.dst) {
		// Slow path: not enough headroom for an 8-byte unaligned store.
		for w.nbits >= 8 {
			if w.pos >= len(w.dst) {
				w.failed = true
				return
			}
			w.dst[w.pos] = byte(w.acc)
			w.pos++
			w.acc >>= 8
			w.nbits -= 8
		}
		return
	}
	binary.LittleEndian.PutUint64(w.dst[w.pos:], w.acc)
	w.pos += 6
	w.acc >>= 48
	w.nbits -= 48
}

// AlignToByte pads the accumulator with zero bits up to the next byte
// boundary, without committing it to dst. Used before stored blocks.
func (w *Writer) AlignToByte() {
	if r := w.nbits % 8; r != 0 {
		w.WriteBits(0, 8-r)
	}
}

// WriteBytes writes raw bytes directly to dst; the caller must have
// byte-aligned first (see AlignToByte). Whole bytes still pending in the
// accumulator are committed to dst ahead of p.
func (w *Writer) WriteBytes(p []byte) {
	if w.failed || w.nbits%8 != 0 {
		w.failed = true
		return
	}
	for w.nbits > 0 {
		if w.pos >= len(w.dst) {
			w.failed = true
			return
		}
		w.dst[w.pos] = byte(w.acc)
		w.pos++
		w.acc >>= 8
		w.nbits -= 8
	}
	if w.pos+len(p) > len(w.dst) {
		w.failed = true
		return
	}
	copy(w.dst[w.pos:], p)
	w.pos += len(p)
}

// Flush emits any remaining whole bytes and zero-pads the final partial
// byte, returning the total number of bytes written or ErrShortBuffer if
// the destination ran out of room at any point.
func (w *Writer) Flush() (int, error) {
	for w.nbits >= 8 {
		if w.pos >= len(w.dst) {
			w.failed = true
			break
		}
		w.dst[w.pos] = byte(w.acc)
		w.pos++
		w.acc >>= 8
		w.nbits -= 8
	}
	if w.nbits > 0 {
		if w.pos >= len(w.dst) {
			w.failed = true
		} else {
			w.dst[w.pos] = byte(w.acc)
			w.pos++
			w.acc = 0
			w.nbits = 0
		}
	}
	if w.failed {
		return w.pos, ErrShortBuffer
	}
	return w.pos, nil
}

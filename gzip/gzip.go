// Package gzip implements the RFC 1952 gzip container: a 10-byte fixed
// header with FLG-gated optional fields, a DEFLATE payload, and a trailing
// little-endian CRC-32 plus ISIZE (original length mod 2^32).
package gzip

import (
	"encoding/binary"
	"fmt"

	deflatekit "github.com/elliotnunn/deflatekit"
	"github.com/elliotnunn/deflatekit/internal/checksum"
	"github.com/elliotnunn/deflatekit/internal/codecerr"
)

const (
	id1 = 0x1F
	id2 = 0x8B
	cm  = 8 // CM=8: DEFLATE compression method
	os  = 255 // unknown OS

	headerSize      = 10
	trailerOverhead = 8

	flgFtext    = 1 << 0
	flgFhcrc    = 1 << 1
	flgFextra   = 1 << 2
	flgFname    = 1 << 3
	flgFcomment = 1 << 4
	flgReserved = 0xE0
)

// Bound reports a destination buffer size guaranteed to hold the
// compressed gzip output of any input of the given size.
func Bound(size int) int {
	return deflatekit.DeflateBound(size) + headerSize + trailerOverhead
}

// xflForLevel maps a compression level to the XFL byte RFC 1952 defines:
// 2 for maximum compression (slowest algorithm), 4 for fastest, 0 otherwise.
func xflForLevel(level int) byte {
	switch {
	case level >= 11:
		return 2
	case level <= 1:
		return 4
	default:
		return 0
	}
}

// Compress wraps src's DEFLATE encoding (at level, validated by the root
// package) in a gzip header and CRC-32/ISIZE trailer.
func Compress(src []byte, level int) ([]byte, error) {
	dst := make([]byte, Bound(len(src)))

	dst[0], dst[1], dst[2] = id1, id2, cm
	dst[3] = 0 // FLG: no optional fields
	// bytes 4-7 (MTIME) left zero
	dst[8] = xflForLevel(level)
	dst[9] = os

	n, err := deflatekit.CompressDeflateInto(dst[headerSize:], src, level, deflatekit.FlushFinish)
	if err != nil {
		return nil, err
	}

	trailer := dst[headerSize+n:]
	binary.LittleEndian.PutUint32(trailer, checksum.CRC32(0, src))
	binary.LittleEndian.PutUint32(trailer[4:], uint32(len(src)))

	return dst[:headerSize+n+trailerOverhead], nil
}

// Decompress validates the gzip header, skips any optional fields FLG
// names, decompresses the payload into a buffer of expectedSize bytes
// (checked against limits by deflatekit.DecompressDeflate), and verifies
// the trailing CRC-32 and ISIZE.
func Decompress(src []byte, expectedSize int, limits deflatekit.Limits) ([]byte, error) {
	if len(src) < headerSize+trailerOverhead {
		return nil, fmt.Errorf("%w: gzip stream shorter than header+trailer", codecerr.ErrShortInput)
	}
	if src[0] != id1 || src[1] != id2 {
		return nil, fmt.Errorf("%w: bad gzip magic", codecerr.ErrBadData)
	}
	if src[2] != cm {
		return nil, fmt.Errorf("%w: unsupported gzip CM %d", codecerr.ErrBadData, src[2])
	}
	flg := src[3]
	if flg&flgReserved != 0 {
		return nil, fmt.Errorf("%w: gzip FLG reserved bits set", codecerr.ErrBadData)
	}

	pos := headerSize
	if flg&flgFextra != 0 {
		if pos+2 > len(src) {
			return nil, fmt.Errorf("%w: truncated gzip FEXTRA length", codecerr.ErrShortInput)
		}
		xlen := int(binary.LittleEndian.Uint16(src[pos:]))
		pos += 2 + xlen
	}
	if flg&flgFname != 0 {
		pos = skipCString(src, pos)
	}
	if flg&flgFcomment != 0 {
		pos = skipCString(src, pos)
	}
	if flg&flgFhcrc != 0 {
		pos += 2
	}
	if pos > len(src)-trailerOverhead {
		return nil, fmt.Errorf("%w: truncated gzip optional fields", codecerr.ErrShortInput)
	}

	payload := src[pos : len(src)-trailerOverhead]
	out, err := deflatekit.DecompressDeflate(payload, expectedSize, limits)
	if err != nil {
		return nil, err
	}

	trailer := src[len(src)-trailerOverhead:]
	wantCRC := binary.LittleEndian.Uint32(trailer)
	wantISize := binary.LittleEndian.Uint32(trailer[4:])

	gotCRC := checksum.CRC32(0, out)
	if gotCRC != wantCRC {
		return nil, fmt.Errorf("%w: gzip CRC-32 mismatch: got %#08x, want %#08x", codecerr.ErrBadData, gotCRC, wantCRC)
	}
	if uint32(len(out)) != wantISize {
		return nil, fmt.Errorf("%w: gzip ISIZE mismatch: got %d, want %d", codecerr.ErrBadData, uint32(len(out)), wantISize)
	}

	return out, nil
}

// skipCString advances past a NUL-terminated optional-field string
// starting at pos, stopping at len(src) if no terminator is found (the
// caller's subsequent bounds check reports the truncation).
func skipCString(src []byte, pos int) int {
	for pos < len(src) && src[pos] != 0 {
		pos++
	}
	if pos < len(src) {
		pos++
	}
	return pos
}

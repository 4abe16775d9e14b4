// Package zlib implements the RFC 1950 zlib container: a 2-byte header
// (CM/CINFO/FLEVEL/FDICT with FCHECK making the header a multiple of 31),
// a DEFLATE payload, and a trailing big-endian Adler-32 of the original
// input.
package zlib

import (
	"encoding/binary"
	"fmt"

	deflatekit "github.com/elliotnunn/deflatekit"
	"github.com/elliotnunn/deflatekit/internal/checksum"
	"github.com/elliotnunn/deflatekit/internal/codecerr"
)

const (
	cm    = 8 // CM=8: DEFLATE compression method
	cinfo = 7 // CINFO=7: 32K window

	headerOverhead  = 2
	trailerOverhead = 4
)

// Bound reports a destination buffer size guaranteed to hold the
// compressed zlib output of any input of the given size.
func Bound(size int) int {
	return deflatekit.DeflateBound(size) + headerOverhead + trailerOverhead
}

// flevelForLevel maps a compression level to the FLEVEL bucket RFC 1950
// defines (0=fastest, 1=fast, 2=default, 3=maximum); purely informational,
// a decoder must accept any FLEVEL value.
func flevelForLevel(level int) byte {
	switch {
	case level <= 1:
		return 0
	case level <= 5:
		return 1
	case level <= 8:
		return 2
	default:
		return 3
	}
}

// header builds the two zlib header bytes for level, choosing FCHECK so the
// big-endian uint16 of the two bytes is a multiple of 31.
func header(level int) [2]byte {
	var h [2]byte
	h[0] = cinfo<<4 | cm
	h[1] = flevelForLevel(level) << 6
	check := uint16(h[0])<<8 | uint16(h[1])
	if rem := check % 31; rem != 0 {
		h[1] += byte(31 - rem)
	}
	return h
}

// Compress wraps src's DEFLATE encoding (at level, validated by the root
// package) in a zlib header and Adler-32 trailer.
func Compress(src []byte, level int) ([]byte, error) {
	dst := make([]byte, Bound(len(src)))

	h := header(level)
	dst[0], dst[1] = h[0], h[1]

	n, err := deflatekit.CompressDeflateInto(dst[headerOverhead:], src, level, deflatekit.FlushFinish)
	if err != nil {
		return nil, err
	}

	sum := checksum.Adler32(1, src)
	binary.BigEndian.PutUint32(dst[headerOverhead+n:], sum)

	return dst[:headerOverhead+n+trailerOverhead], nil
}

// Decompress validates the zlib header, decompresses the payload into a
// buffer of expectedSize bytes (checked against limits by
// deflatekit.DecompressDeflate), and verifies the trailing Adler-32.
func Decompress(src []byte, expectedSize int, limits deflatekit.Limits) ([]byte, error) {
	if len(src) < headerOverhead+trailerOverhead {
		return nil, fmt.Errorf("%w: zlib stream shorter than header+trailer", codecerr.ErrShortInput)
	}

	cmcinfo, flg := src[0], src[1]
	if (uint16(cmcinfo)<<8|uint16(flg))%31 != 0 {
		return nil, fmt.Errorf("%w: zlib header check failed", codecerr.ErrBadData)
	}
	if cmcinfo&0xF != cm {
		return nil, fmt.Errorf("%w: unsupported zlib CM %d", codecerr.ErrBadData, cmcinfo&0xF)
	}
	if cmcinfo>>4 > cinfo {
		return nil, fmt.Errorf("%w: zlib CINFO %d exceeds window", codecerr.ErrBadData, cmcinfo>>4)
	}
	if flg&0x20 != 0 {
		return nil, fmt.Errorf("%w: zlib FDICT unsupported", codecerr.ErrBadData)
	}

	payload := src[headerOverhead : len(src)-trailerOverhead]
	out, err := deflatekit.DecompressDeflate(payload, expectedSize, limits)
	if err != nil {
		return nil, err
	}

	wantSum := binary.BigEndian.Uint32(src[len(src)-trailerOverhead:])
	gotSum := checksum.Adler32(1, out)
	if gotSum != wantSum {
		return nil, fmt.Errorf("%w: zlib Adler-32 mismatch: got %#08x, want %#08x", codecerr.ErrBadData, gotSum, wantSum)
	}

	return out, nil
}

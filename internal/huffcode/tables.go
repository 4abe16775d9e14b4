package huffcode

// RFC 1951 constants shared by the encoder and decoder halves of this
// package, and by internal/blockio and internal/parser which need the same
// length/distance classification the Huffman code itself is built over.
const (
	MaxLitLenSymbols = 286 // 0-255 literal, 256 end-of-block, 257-285 length
	MaxDistSymbols   = 30

	// FixedLitLenSymbols is wider than MaxLitLenSymbols: RFC 1951 section
	// 3.2.6 assigns the fixed litlen code 288 symbols (280-287 all length
	// 8) purely to make it Kraft-complete, even though symbols 286 and 287
	// are never actually used by any encoder (dynamic or fixed) and so
	// never appear in the 286-symbol dynamic alphabet the rest of this
	// package works with.
	FixedLitLenSymbols = 288
	MaxPrecodeSymbols = 19
	EndOfBlock        = 256

	MaxLitLenCodeLen  = 15
	MaxDistCodeLen    = 15
	MaxPrecodeCodeLen = 7

	// EmitMaxLitLenCodeLen is spec.md's narrower 14-bit cap used only when
	// the encoder emits its own dynamic code, to shave a little header
	// cost versus the full 15-bit limit RFC 1951 otherwise allows.
	EmitMaxLitLenCodeLen = 14

	MinMatchLength = 3
	MaxMatchLength = 258
	MaxMatchDistance = 32768
	WindowSize       = 32768
)

// LengthBase and LengthExtraBits give, for length symbol s in [257,285],
// the smallest match length it encodes and the number of extra bits that
// follow to select within its range. Index with s-257.
var LengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var LengthExtraBits = [29]uint{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// DistBase and DistExtraBits give, for distance symbol s in [0,29], the
// smallest match distance it encodes and the extra bit count.
var DistBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var DistExtraBits = [30]uint{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// CodeOrder is the fixed permutation in which precode (code-length code)
// lengths are written in a dynamic block header, RFC 1951 section 3.2.7.
var CodeOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// LengthToSlot maps a match length (3..258) directly to its litlen symbol
// (257..285); built once from LengthBase.
var LengthToSlot [259]uint16

// DistSlot maps a match distance (1..32768) to its distance code
// (0..29); split into two ranges for speed the way zlib's _length_code /
// _dist_code tables are, since a linear scan per symbol would dominate the
// parser's hot loop.
var distToSlotLow [256]uint8  // distances 1..256, direct index by (d-1)
var distToSlotHigh [256]uint8 // distances 257..32768, index by (d-1)>>7

func init() {
	slot := 0
	for l := MinMatchLength; l <= MaxMatchLength; l++ {
		for slot+1 < len(LengthBase) && l >= LengthBase[slot+1] {
			slot++
		}
		LengthToSlot[l] = uint16(257 + slot)
	}

	slot = 0
	for d := 1; d <= 256; d++ {
		for slot+1 < len(DistBase) && d >= DistBase[slot+1] {
			slot++
		}
		distToSlotLow[d-1] = uint8(slot)
	}
	slot = 0
	for d := 257; d <= MaxMatchDistance; d += 128 {
		for slot+1 < len(DistBase) && d >= DistBase[slot+1] {
			slot++
		}
		distToSlotHigh[(d-1)>>7] = uint8(slot)
	}
}

// DistSlot returns the DEFLATE distance code for a 1-based match distance.
func DistSlot(dist int) int {
	if dist <= 256 {
		return int(distToSlotLow[dist-1])
	}
	return int(distToSlotHigh[(dist-1)>>7])
}

// FixedLitLenLengths and FixedDistLengths are the RFC 1951 section 3.2.6
// static Huffman code lengths, used for static blocks. Each call builds a
// fresh slice; the codewords derived from them are memoized process wide
// via the sync.Once in static.go.
func FixedLitLenLengths() []uint8 {
	lens := make([]uint8, FixedLitLenSymbols)
	for i := 0; i < 144; i++ {
		lens[i] = 8
	}
	for i := 144; i < 256; i++ {
		lens[i] = 9
	}
	for i := 256; i < 280; i++ {
		lens[i] = 7
	}
	for i := 280; i < FixedLitLenSymbols; i++ {
		lens[i] = 8
	}
	return lens
}

func FixedDistLengths() []uint8 {
	lens := make([]uint8, MaxDistSymbols)
	for i := range lens {
		lens[i] = 5
	}
	return lens
}

package blockio

import (
	"github.com/elliotnunn/deflatekit/internal/huffcode"
	"github.com/elliotnunn/deflatekit/internal/parser"
)

// codeBits returns, for a set of per-symbol code lengths and matching
// frequencies, the number of payload bits the symbols alone cost (not
// counting extra bits); lens shorter than freqs are treated as 0 (unused).
func codeBits(lens []uint8, freqs []uint32) uint64 {
	var bits uint64
	for i, f := range freqs {
		if f == 0 {
			continue
		}
		var l uint8
		if i < len(lens) {
			l = lens[i]
		}
		bits += uint64(f) * uint64(l)
	}
	return bits
}

// litLenExtraBits returns the total extra length-bits contributed by the
// litlen histogram's length symbols (257-285); literal and end-of-block
// symbols never carry extra bits.
func litLenExtraBits(freqs []uint32) uint64 {
	var bits uint64
	for i := 257; i < len(freqs) && i < huffcode.MaxLitLenSymbols; i++ {
		bits += uint64(freqs[i]) * uint64(huffcode.LengthExtraBits[i-257])
	}
	return bits
}

func distExtraBits(freqs []uint32) uint64 {
	var bits uint64
	for i, f := range freqs {
		if f == 0 || i >= len(huffcode.DistExtraBits) {
			continue
		}
		bits += uint64(f) * uint64(huffcode.DistExtraBits[i])
	}
	return bits
}

// storedCost reports the bit cost of emitting n bytes as one or more
// uncompressed blocks (writeStored splits any candidate over maxStoredLen
// bytes into several), each paying its own BFINAL/BTYPE header, byte-
// alignment padding (worst-cased at a full 7 bits, the caller knows the
// real count once it's writing), and 4-byte LEN/NLEN pair.
func storedCost(n int) uint64 {
	blocks := uint64(max(1, (n+maxStoredLen-1)/maxStoredLen))
	return blocks*(3+7+32) + uint64(n)*8
}

// staticCost sums the fixed RFC 1951 code's bit cost over a block's
// histograms, plus the mandatory end-of-block symbol and the 3-bit block
// header.
func staticCost(h *parser.Histograms) uint64 {
	litLens := huffcode.FixedLitLenLengths()
	distLens := huffcode.FixedDistLengths()
	freqs := h.LitLen
	freqs[huffcode.EndOfBlock]++
	bits := codeBits(litLens, freqs[:]) + codeBits(distLens, h.Dist[:])
	bits += litLenExtraBits(freqs[:]) + distExtraBits(h.Dist[:])
	return 3 + bits
}

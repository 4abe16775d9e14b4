// Package blockio implements the per-block wire format spec.md §4.6 and
// §4.7 describe: choosing among stored/static/dynamic block encodings,
// emitting the dynamic header's run-length-coded code-length table, and
// the matching decoder side. It generalizes the teacher's
// internal/flate.huffmanBlock/dataBlock/huffSym trio in inflate.go to a
// writer as well as a reader, and to the richer code-length-table
// construction this codec's encoder needs.
package blockio

import "github.com/elliotnunn/deflatekit/internal/huffcode"

const (
	btypeStored  = 0
	btypeStatic  = 1
	btypeDynamic = 2
)

// rleSym is one entry of a dynamic header's run-length-coded code-length
// sequence: either a literal code length 0-15, or one of the three repeat
// codes (16 = copy previous length, 17/18 = zero run) carrying Extra
// additional bits of payload.
type rleSym struct {
	Symbol    uint8
	Extra     uint32
	ExtraBits uint8
}

// rleExtraBitsTable and rleBaseRun give, for symbols 16/17/18, the extra-bit count and base
// run length RFC 1951 section 3.2.7 specifies.
var (
	rleExtraBitsTable = [3]uint8{2, 3, 7}
	rleBaseRun        = [3]int{3, 3, 11}
)

// encodeLengths run-length-encodes a combined litlen+dist code-length
// array into the {16,17,18}-aware symbol sequence spec.md §4.6 specifies,
// and returns the frequency histogram over the 19-symbol precode alphabet
// needed to build the precode Huffman table.
func encodeLengths(lens []uint8) (syms []rleSym, freqs [huffcode.MaxPrecodeSymbols]uint32) {
	i := 0
	for i < len(lens) {
		v := lens[i]
		run := 1
		for i+run < len(lens) && lens[i+run] == v {
			run++
		}

		if v == 0 {
			n := run
			for n > 0 {
				switch {
				case n >= 11:
					r := n
					if r > 138 {
						r = 138
					}
					syms = append(syms, rleSym{Symbol: 18, Extra: uint32(r - 11), ExtraBits: 7})
					freqs[18]++
					n -= r
				case n >= 3:
					r := n
					if r > 10 {
						r = 10
					}
					syms = append(syms, rleSym{Symbol: 17, Extra: uint32(r - 3), ExtraBits: 3})
					freqs[17]++
					n -= r
				default:
					syms = append(syms, rleSym{Symbol: 0})
					freqs[0]++
					n--
				}
			}
			i += run
			continue
		}

		// One literal occurrence of v, then as many "copy previous" (16)
		// codes as the remaining run allows (3-6 repeats per code).
		syms = append(syms, rleSym{Symbol: v})
		freqs[v]++
		i++
		n := run - 1
		for n > 0 {
			r := n
			if r > 6 {
				r = 6
			}
			if r < 3 {
				for ; r > 0; r-- {
					syms = append(syms, rleSym{Symbol: v})
					freqs[v]++
				}
				break
			}
			syms = append(syms, rleSym{Symbol: 16, Extra: uint32(r - 3), ExtraBits: 2})
			freqs[16]++
			n -= r
		}
		i += run - 1
	}
	return syms, freqs
}

// trimLengths drops trailing zero entries, never returning fewer than min.
func trimLengths(lens []uint8, min int) []uint8 {
	n := len(lens)
	for n > min && lens[n-1] == 0 {
		n--
	}
	return lens[:n]
}

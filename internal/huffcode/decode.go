package huffcode

import (
	"errors"
	"math/bits"
)

// ErrOverSubscribed and ErrIncomplete report a code-length table that
// doesn't satisfy Kraft's inequality with the equality RFC 1951 requires
// (except for the explicitly-permitted empty/degenerate cases) — the
// primary way a corrupt dynamic Huffman header is detected.
var (
	ErrOverSubscribed = errors.New("huffcode: over-subscribed code")
	ErrIncomplete      = errors.New("huffcode: incomplete code")
)

// EntryKind classifies a decode table entry, spec.md §3's "Decode table
// entry" kinds.
type EntryKind uint8

const (
	KindInvalid EntryKind = iota
	KindLiteral
	KindEndOfBlock
	KindLength
	KindDistance
	KindSubTable
)

// Entry is the packed decode-table record spec.md §3 and §4.3 describe:
// kind, symbol/base value, main bit width actually consumed, extra-bit
// count to read afterward (for length/distance symbols), and — for
// KindSubTable — the index of the continuation table plus its bit width.
type Entry struct {
	Kind      EntryKind
	Symbol    int    // raw Huffman symbol (0-285 litlen, 0-29 dist, 0-18 precode)
	Base      int    // base length/distance value for Kind Length/Distance
	MainBits  uint8  // bits of the codeword consumed by this table lookup
	ExtraBits uint8  // extra bits to read and add to Base
	SubIndex  uint16 // for KindSubTable: index into DecodeTable.Sub
	SubBits   uint8  // for KindSubTable: width of the sub-table
}

// DecodeTable is a primary table of size 1<<PrimaryBits plus a set of
// appended sub-tables for codewords longer than PrimaryBits, exactly
// spec.md §4.3's primary+sub-table scheme — the same structure as the
// teacher's internal/flate huffmanDecoder (chunks + links), generalized so
// each entry also carries the {kind, extra-bit count, base value} the
// decode hot loop needs without a secondary switch on the symbol's range.
type DecodeTable struct {
	PrimaryBits uint
	Primary     []Entry
	Sub         [][]Entry
	MinCodeLen  int
}

// symbolClass describes, for a single symbol domain (litlen, distance, or
// precode), how to turn a raw decoded symbol into an Entry's kind/base/
// extra-bit fields. Keeping this as data (rather than three near-duplicate
// BuildXxxTable functions) is how this codec avoids writing the litlen,
// distance, and precode table builders three times over.
type symbolClass func(symbol int) (kind EntryKind, base int, extra uint8)

// LitLenClass classifies a litlen/length symbol. Symbols 286 and 287 only
// ever appear while building the fixed code's decode table (there to make
// the fixed code Kraft-complete, per RFC 1951 section 3.2.6): no encoder
// emits them, so a stream that actually decodes one is corrupt.
func LitLenClass(symbol int) (EntryKind, int, uint8) {
	switch {
	case symbol < 256:
		return KindLiteral, symbol, 0
	case symbol == EndOfBlock:
		return KindEndOfBlock, 0, 0
	case symbol > 285:
		return KindInvalid, 0, 0
	default:
		i := symbol - 257
		return KindLength, LengthBase[i], uint8(LengthExtraBits[i])
	}
}

// DistClass classifies a distance symbol (0-29).
func DistClass(symbol int) (EntryKind, int, uint8) {
	return KindDistance, DistBase[symbol], uint8(DistExtraBits[symbol])
}

// PrecodeClass classifies a precode (code-length alphabet) symbol: the
// precode alphabet's "symbol" is its own payload (a length 0-15 or a run
// code 16-18), so the raw symbol value is reported as the Literal-shaped
// base with no extra bits baked in — run codes 16-18 carry their own extra
// bit counts, consumed by the caller (internal/blockio), not by this table.
func PrecodeClass(symbol int) (EntryKind, int, uint8) {
	return KindLiteral, symbol, 0
}

// BuildDecodeTable constructs a primary+sub-table decode table from
// per-symbol code lengths, generalizing the teacher's
// internal/flate.huffmanDecoder.init (chunk-fill-by-stride for short
// codes, link-table-by-stride for long codes) to the richer Entry shape
// this codec's decoder needs.
func BuildDecodeTable(lens []uint8, primaryBits uint, class symbolClass) (*DecodeTable, error) {
	var count [MaxLitLenCodeLen + 2]int
	min, max := 0, 0
	for _, l := range lens {
		if l == 0 {
			continue
		}
		if min == 0 || int(l) < min {
			min = int(l)
		}
		if int(l) > max {
			max = int(l)
		}
		count[l]++
	}

	t := &DecodeTable{
		PrimaryBits: primaryBits,
		Primary:     make([]Entry, 1<<primaryBits),
		MinCodeLen:  min,
	}
	if max == 0 {
		return t, nil // empty code: legal for e.g. an unused distance tree
	}

	code := 0
	var nextCode [MaxLitLenCodeLen + 2]int
	for i := min; i <= max; i++ {
		code <<= 1
		nextCode[i] = code
		code += count[i]
	}

	degenerate := code == 1 && max == 1
	if code != 1<<uint(max) && !degenerate {
		if code > 1<<uint(max) {
			return nil, ErrOverSubscribed
		}
		return nil, ErrIncomplete
	}

	// Pre-allocate one sub-table per distinct long-code prefix.
	if max > int(primaryBits) {
		link := nextCode[primaryBits+1] >> 1
		numPrefixes := (1 << primaryBits) - link
		t.Sub = make([][]Entry, numPrefixes)
		for j := link; j < (1 << primaryBits); j++ {
			reverse := int(bits.Reverse16(uint16(j)))
			reverse >>= 16 - primaryBits
			off := j - link
			subWidth := uint8(max - int(primaryBits))
			t.Primary[reverse] = Entry{
				Kind:     KindSubTable,
				SubIndex: uint16(off),
				SubBits:  subWidth,
				MainBits: uint8(primaryBits),
			}
			t.Sub[off] = make([]Entry, 1<<subWidth)
		}
	}

	for sym, l := range lens {
		if l == 0 {
			continue
		}
		n := int(l)
		c := nextCode[n]
		nextCode[n]++
		reverse := int(bits.Reverse16(uint16(c)))
		reverse >>= 16 - n

		kind, base, extra := class(sym)
		entry := Entry{Kind: kind, Symbol: sym, Base: base, ExtraBits: extra, MainBits: uint8(n)}

		if n <= int(primaryBits) {
			for off := reverse; off < len(t.Primary); off += 1 << uint(n) {
				t.Primary[off] = entry
			}
		} else {
			primaryIdx := reverse & ((1 << primaryBits) - 1)
			subEntry := t.Primary[primaryIdx]
			sub := t.Sub[subEntry.SubIndex]
			hi := reverse >> primaryBits
			step := 1 << uint(n-int(primaryBits))
			for off := hi; off < len(sub); off += step {
				sub[off] = entry
			}
		}

		if degenerate {
			// The codespace is only half-subscribed (one 1-bit code).
			// Rather than leave the other half KindInvalid, fill every
			// primary slot with the sole symbol so stray bit patterns
			// still decode cleanly, per spec.md §4.3 step 5.
			for off := range t.Primary {
				t.Primary[off] = entry
			}
		}
	}

	return t, nil
}

// Lookup resolves one symbol starting from the low bits of bitbuf (at
// least primaryBits valid, plus SubBits more if a sub-table hop is
// indicated — the caller is expected to have refilled generously, per
// spec.md §4.3's "one refill + one table lookup + at most one sub-table
// lookup" invariant) and reports how many bits of bitbuf it consumed
// before any ExtraBits.
func (t *DecodeTable) Lookup(bitbuf uint32) (Entry, uint) {
	e := t.Primary[bitbuf&(1<<t.PrimaryBits-1)]
	if e.Kind != KindSubTable {
		return e, uint(e.MainBits)
	}
	sub := t.Sub[e.SubIndex]
	idx := (bitbuf >> t.PrimaryBits) & (1<<e.SubBits - 1)
	se := sub[idx]
	return se, uint(se.MainBits) // se.MainBits is the full codeword length
}

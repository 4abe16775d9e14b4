// Package parser turns raw input bytes into the sequence of literal runs
// and back-references a block emitter can write, choosing among five
// strategies by compression level (spec.md §4.5): store, greedy over a
// hash-only or hash-chain finder, lazy matching with one or two bytes of
// lookahead, and a near-optimal two-pass dynamic program over the
// binary-tree finder's full match set. It also owns the block-split
// observer that decides where one DEFLATE block ends and the next begins.
package parser

import "github.com/elliotnunn/deflatekit/internal/huffcode"

// Sequence is spec.md §3's literal-run/match record: LiteralRun literal
// bytes immediately precede a back-reference of MatchLength bytes found
// MatchDistance bytes back (DistSlot is the distance symbol precomputed so
// the emitter never recomputes it). MatchLength==0 marks a trailing
// literal-only run with no following match.
type Sequence struct {
	LiteralRun   int
	MatchLength  int
	MatchDistance int
	DistSlot     int
}

// Histograms accumulates the literal/length and distance symbol
// frequencies a block needs to build its Huffman codes. The raw literal
// bytes and sequence list needed to emit them live beside it in Block.
type Histograms struct {
	LitLen [huffcode.MaxLitLenSymbols]uint32
	Dist   [huffcode.MaxDistSymbols]uint32
}

func (h *Histograms) reset() {
	for i := range h.LitLen {
		h.LitLen[i] = 0
	}
	for i := range h.Dist {
		h.Dist[i] = 0
	}
}

// AddLiteral records one literal byte in the litlen histogram.
func (h *Histograms) AddLiteral(b byte) {
	h.LitLen[b]++
}

// AddMatch records one match's length and distance symbols. The
// end-of-block symbol is never counted here: callers that build codes from
// these histograms add its single occurrence to their own copy.
func (h *Histograms) AddMatch(length, distSlot int) {
	h.LitLen[huffcode.LengthToSlot[length]]++
	h.Dist[distSlot]++
}

// Block is one complete parser result: the literal bytes backing every
// LiteralRun in order, the sequence list, and the histograms built while
// producing them.
type Block struct {
	Literals   []byte
	Sequences  []Sequence
	Histograms Histograms
	Start, End int // [Start,End) within the original input
}

// Reconstruct replays a Block's sequences against its own literal bytes to
// recover [Start,End) of the original input, the invariant spec.md §3
// states for Sequence. It exists mainly so tests (and, eventually,
// internal/blockio) can check a parse round-trips without needing a full
// bitstream encoder/decoder.
func (b *Block) Reconstruct() []byte {
	out := make([]byte, 0, b.End-b.Start)
	lit := b.Literals
	for _, seq := range b.Sequences {
		out = append(out, lit[:seq.LiteralRun]...)
		lit = lit[seq.LiteralRun:]
		if seq.MatchLength == 0 {
			continue
		}
		src := len(out) - seq.MatchDistance
		for i := 0; i < seq.MatchLength; i++ {
			out = append(out, out[src+i])
		}
	}
	return out
}

package blockio

import (
	"github.com/elliotnunn/deflatekit/internal/bitio"
	"github.com/elliotnunn/deflatekit/internal/codecerr"
	"github.com/elliotnunn/deflatekit/internal/huffcode"
	"github.com/elliotnunn/deflatekit/internal/parser"
)

// Histograms is an alias so callers outside internal/parser can refer to
// the same type this package's cost functions operate on without an
// import of internal/parser showing up in their own signatures.
type Histograms = parser.Histograms

// fastMargin is the destination margin (in bytes) for an unchecked
// literal/match fast path. No code consults it: emitSequences has no such
// fast path and writes every symbol through bitio.Writer's bounds-checked
// WriteBits.
const fastMargin = 16

// WriteBlock picks the cheapest of stored/static/dynamic for blk (given
// the raw bytes it covers, data[blk.Start:blk.End]) and writes it to w,
// setting BFINAL according to final. Level gates how hard it looks:
// level<=1 never builds a dynamic plan (spec.md §4.6).
func WriteBlock(w *bitio.Writer, data []byte, blk *parser.Block, final bool, level int) error {
	raw := data[blk.Start:blk.End]

	bestCost := staticCost(&blk.Histograms)
	bestType := btypeStatic

	sc := storedCost(len(raw))
	if sc < bestCost {
		bestCost = sc
		bestType = btypeStored
	}

	var dyn *dynamicPlan
	if level >= 2 {
		dyn = buildDynamicPlan(&blk.Histograms)
		if dyn.cost < bestCost {
			bestType = btypeDynamic
		}
	}

	switch bestType {
	case btypeStored:
		return writeStored(w, raw, final)
	case btypeStatic:
		return writeStatic(w, blk, final)
	default:
		return writeDynamic(w, blk, dyn, final)
	}
}

// WriteSyncFlush emits a zero-length stored block (BFINAL=0), the
// standard DEFLATE sync-flush marker: it terminates the current block
// without ending the stream, so a decoder reading byte-for-byte up to
// this point sees every bit of input emitted so far, while the stream
// stays open for more blocks after it. Used by internal/chunked to join
// independently-compressed chunks into one valid stream.
func WriteSyncFlush(w *bitio.Writer) error {
	return writeStored(w, nil, false)
}

func finalBit(final bool) uint32 {
	if final {
		return 1
	}
	return 0
}

// maxStoredLen is the hard ceiling RFC 1951's 16-bit stored-block LEN field
// imposes: a stored block can never hold more than this many payload bytes,
// so a candidate longer than this is written as several consecutive stored
// blocks, only the last of which carries the caller's BFINAL bit.
const maxStoredLen = 65535

func writeStored(w *bitio.Writer, raw []byte, final bool) error {
	for {
		chunk := raw
		if len(chunk) > maxStoredLen {
			chunk = chunk[:maxStoredLen]
		}
		raw = raw[len(chunk):]
		last := len(raw) == 0
		if err := writeStoredChunk(w, chunk, final && last); err != nil {
			return err
		}
		if last {
			return nil
		}
	}
}

func writeStoredChunk(w *bitio.Writer, raw []byte, final bool) error {
	w.WriteBits(finalBit(final)|btypeStored<<1, 3)
	w.AlignToByte()
	n := len(raw)
	w.WriteBits(uint32(n), 16)
	w.WriteBits(uint32(^n&0xFFFF), 16)
	w.WriteBytes(raw)
	if w.Failed() {
		return codecerr.ErrInsufficientSpace
	}
	return nil
}

func writeStatic(w *bitio.Writer, blk *parser.Block, final bool) error {
	w.WriteBits(finalBit(final)|btypeStatic<<1, 3)
	litLens := huffcode.FixedLitLenLengths()
	distLens := huffcode.FixedDistLengths()
	litCodes := huffcode.FixedLitLenCodes()
	distCodes := huffcode.FixedDistCodes()
	return emitSequences(w, blk, litLens, litCodes, distLens, distCodes)
}

func writeDynamic(w *bitio.Writer, blk *parser.Block, p *dynamicPlan, final bool) error {
	w.WriteBits(finalBit(final)|btypeDynamic<<1, 3)
	w.WriteBits(uint32(p.hlit), 5)
	w.WriteBits(uint32(p.hdist), 5)
	w.WriteBits(uint32(p.hclen), 4)

	for i := 0; i < p.hclen+4; i++ {
		sym := huffcode.CodeOrder[i]
		w.WriteBits(uint32(p.precodeLens[sym]), 3)
	}
	for _, s := range p.rle {
		w.WriteBits(uint32(p.precodeCodes[s.Symbol]), uint(p.precodeLens[s.Symbol]))
		if s.ExtraBits > 0 {
			w.WriteBits(s.Extra, uint(s.ExtraBits))
		}
	}

	return emitSequences(w, blk, p.litLens, p.litCodes, p.distLens, p.distCodes)
}

// emitSequences writes a block's literal/match payload given its chosen
// litlen and distance codes, per spec.md §4.6's iteration: litrunlen
// literals, then (if present) the match's length symbol, extra length
// bits, distance symbol, and extra distance bits. It ends with the
// end-of-block symbol.
func emitSequences(w *bitio.Writer, blk *parser.Block, litLens []uint8, litCodes []uint16, distLens []uint8, distCodes []uint16) error {
	lit := blk.Literals
	for _, seq := range blk.Sequences {
		for i := 0; i < seq.LiteralRun; i++ {
			b := lit[i]
			w.WriteBits(uint32(litCodes[b]), uint(litLens[b]))
		}
		lit = lit[seq.LiteralRun:]

		if seq.MatchLength == 0 {
			continue
		}
		lengthSym := huffcode.LengthToSlot[seq.MatchLength]
		lengthExtra := huffcode.LengthExtraBits[lengthSym-257]
		lengthBase := huffcode.LengthBase[lengthSym-257]
		w.WriteBits(uint32(litCodes[lengthSym]), uint(litLens[lengthSym]))
		if lengthExtra > 0 {
			w.WriteBits(uint32(seq.MatchLength-lengthBase), lengthExtra)
		}

		distSym := seq.DistSlot
		distExtra := huffcode.DistExtraBits[distSym]
		distBase := huffcode.DistBase[distSym]
		w.WriteBits(uint32(distCodes[distSym]), uint(distLens[distSym]))
		if distExtra > 0 {
			w.WriteBits(uint32(seq.MatchDistance-distBase), distExtra)
		}
	}
	w.WriteBits(uint32(litCodes[huffcode.EndOfBlock]), uint(litLens[huffcode.EndOfBlock]))
	if w.Failed() {
		return codecerr.ErrInsufficientSpace
	}
	return nil
}

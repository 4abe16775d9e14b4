package blockio

import (
	"fmt"
	"sync"

	"github.com/elliotnunn/deflatekit/internal/bitio"
	"github.com/elliotnunn/deflatekit/internal/codecerr"
	"github.com/elliotnunn/deflatekit/internal/huffcode"
)

// state names the decoder's position in spec.md §3's state machine. This
// implementation resolves a whole block in one synchronous pass rather
// than suspending mid-refill across separate reads; Decode and its helpers
// record the state they are in as they go (a stored payload is copied
// within stateUncompressedHeader, so stateUncompressedBody is never
// entered), and Decode resets it to stateStart when it returns. Errors do
// not report the state.
type state int

const (
	stateStart state = iota
	stateDynamicHeader
	stateStaticLoaded
	stateBlockBody
	statePendingMatch
	stateUncompressedHeader
	stateUncompressedBody
	stateDone
)

// primaryTableBits is the teacher's huffmanChunkBits equivalent: the width
// of the primary decode-table lookup before a sub-table hop is needed.
const primaryTableBits = 9

// fastLoopMinInput and fastLoopMinOutput are the margins spec.md §4.7
// requires before the hot symbol-decode loop's unchecked fast path may
// run: enough input to refill past the longest possible litlen+extra+
// dist+extra codeword sequence, and enough output room for one maximal
// match.
const (
	fastLoopMinInput  = 15
	fastLoopMinOutput = 258
)

var (
	staticOnce       sync.Once
	staticLitLenOnce *huffcode.DecodeTable
	staticDistOnce   *huffcode.DecodeTable
)

func staticTables() (*huffcode.DecodeTable, *huffcode.DecodeTable) {
	staticOnce.Do(func() {
		t, err := huffcode.BuildDecodeTable(huffcode.FixedLitLenLengths(), primaryTableBits, huffcode.LitLenClass)
		if err != nil {
			panic("blockio: fixed litlen table rejected: " + err.Error())
		}
		staticLitLenOnce = t
		d, err := huffcode.BuildDecodeTable(huffcode.FixedDistLengths(), primaryTableBits, huffcode.DistClass)
		if err != nil {
			panic("blockio: fixed dist table rejected: " + err.Error())
		}
		staticDistOnce = d
	})
	return staticLitLenOnce, staticDistOnce
}

// Reader decodes a full DEFLATE bitstream into a caller-supplied output
// buffer. It directly generalizes the teacher's internal/flate decoder's
// huffmanBlock/dataBlock/huffSym trio: the same primary+sub-table Huffman
// lookup and refill discipline, but writing into a bounded slice instead
// of an unbounded append-only window (InsufficientSpace replacing
// unbounded append), and reporting the codecerr taxonomy in place of the
// teacher's panic/recover-to-errors.New idiom (the recover wrapper itself
// is kept, in Decode, as it is exactly the teacher's nextBlock pattern).
type Reader struct {
	state state
}

// Decode reads one or more DEFLATE blocks from src (stopping at the first
// BFINAL=1) and writes the decompressed bytes into dst, returning the
// number of bytes written. dst must already be sized to hold the whole
// output: running out of room reports codecerr.ErrInsufficientSpace
// without writing past dst's end. The Reader's state is fully reset
// before Decode returns, successfully or not, so it is reusable.
func (r *Reader) Decode(src, dst []byte) (n int, err error) {
	defer func() {
		r.state = stateStart
		if rec := recover(); rec != nil {
			if berr, ok := rec.(blockioError); ok {
				err = berr.err
				return
			}
			panic(rec)
		}
	}()

	br := bitio.NewReader(src)
	out := 0
	for {
		r.state = stateStart
		br.Refill()
		finalBit, ok := br.ReadBits(1)
		if !ok {
			fail(codecerr.ErrShortInput, "truncated block header")
		}
		btype, ok := br.ReadBits(2)
		if !ok {
			fail(codecerr.ErrShortInput, "truncated block header")
		}

		switch btype {
		case btypeStored:
			r.state = stateUncompressedHeader
			out = r.decodeStored(br, dst, out)
		case btypeStatic:
			r.state = stateStaticLoaded
			lit, dist := staticTables()
			out = r.decodeHuffmanBlock(br, dst, out, lit, dist)
		case btypeDynamic:
			r.state = stateDynamicHeader
			lit, dist := r.readDynamicHeader(br)
			r.state = stateBlockBody
			out = r.decodeHuffmanBlock(br, dst, out, lit, dist)
		default:
			fail(codecerr.ErrBadData, "reserved block type 3")
		}

		if finalBit == 1 {
			r.state = stateDone
			return out, nil
		}
	}
}

// blockioError lets the deeply-nested decode helpers abort straight back
// to Decode's recover without threading an error return through every
// call, exactly the teacher's internal/flate panic(decodeError) idiom.
type blockioError struct{ err error }

func fail(sentinel error, detail string) {
	panic(blockioError{fmt.Errorf("%w: %s", sentinel, detail)})
}

func (r *Reader) decodeStored(br *bitio.Reader, dst []byte, out int) int {
	br.AlignToByte()
	lenLo, ok1 := br.ReadAlignedByte()
	lenHi, ok2 := br.ReadAlignedByte()
	nlenLo, ok3 := br.ReadAlignedByte()
	nlenHi, ok4 := br.ReadAlignedByte()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		fail(codecerr.ErrShortInput, "truncated stored-block header")
	}
	length := int(lenLo) | int(lenHi)<<8
	nlength := int(nlenLo) | int(nlenHi)<<8
	if length != nlength^0xFFFF {
		fail(codecerr.ErrBadData, "stored block LEN/NLEN mismatch")
	}
	if out+length > len(dst) {
		fail(codecerr.ErrInsufficientSpace, "stored block overflows output buffer")
	}
	payload, ok := br.ReadAlignedBytes(length)
	if !ok {
		fail(codecerr.ErrShortInput, "truncated stored-block payload")
	}
	copy(dst[out:out+length], payload)
	return out + length
}

// readDynamicHeader reads hlit/hdist/hclen, the precode lengths (in
// spec.md's fixed permutation order), the run-length-coded combined
// litlen+distance length sequence, and builds the two decode tables the
// block body will use.
func (r *Reader) readDynamicHeader(br *bitio.Reader) (*huffcode.DecodeTable, *huffcode.DecodeTable) {
	hlit, ok1 := br.ReadBits(5)
	hdist, ok2 := br.ReadBits(5)
	hclen, ok3 := br.ReadBits(4)
	if !ok1 || !ok2 || !ok3 {
		fail(codecerr.ErrShortInput, "truncated dynamic block header")
	}

	var precodeLens [huffcode.MaxPrecodeSymbols]uint8
	for i := 0; i < int(hclen)+4; i++ {
		v, ok := br.ReadBits(3)
		if !ok {
			fail(codecerr.ErrShortInput, "truncated precode lengths")
		}
		precodeLens[huffcode.CodeOrder[i]] = uint8(v)
	}
	precodeTable, err := huffcode.BuildDecodeTable(precodeLens[:], huffcode.MaxPrecodeCodeLen, huffcode.PrecodeClass)
	if err != nil {
		fail(codecerr.ErrBadData, "invalid precode table: "+err.Error())
	}

	total := int(hlit) + 257 + int(hdist) + 1
	combined := make([]uint8, total)
	i := 0
	var prev uint8
	for i < total {
		br.Refill()
		e, consumed := precodeTable.Lookup(br.PeekBits(huffcode.MaxPrecodeCodeLen))
		if consumed == 0 {
			fail(codecerr.ErrBadData, "invalid precode symbol")
		}
		br.DropBits(consumed)

		sym := e.Base
		switch {
		case sym <= 15:
			combined[i] = uint8(sym)
			prev = uint8(sym)
			i++
		case sym == 16:
			extra, ok := br.ReadBits(2)
			if !ok {
				fail(codecerr.ErrShortInput, "truncated repeat-previous code")
			}
			run := int(extra) + 3
			if i == 0 || i+run > total {
				fail(codecerr.ErrBadData, "repeat-previous code out of range")
			}
			for k := 0; k < run; k++ {
				combined[i] = prev
				i++
			}
		case sym == 17:
			extra, ok := br.ReadBits(3)
			if !ok {
				fail(codecerr.ErrShortInput, "truncated short zero-run code")
			}
			run := int(extra) + 3
			if i+run > total {
				fail(codecerr.ErrBadData, "zero-run code out of range")
			}
			i += run
			prev = 0
		case sym == 18:
			extra, ok := br.ReadBits(7)
			if !ok {
				fail(codecerr.ErrShortInput, "truncated long zero-run code")
			}
			run := int(extra) + 11
			if i+run > total {
				fail(codecerr.ErrBadData, "zero-run code out of range")
			}
			i += run
			prev = 0
		default:
			fail(codecerr.ErrBadData, "invalid precode symbol value")
		}
	}

	litLens := combined[:int(hlit)+257]
	distLens := combined[int(hlit)+257:]

	litTable, err := huffcode.BuildDecodeTable(litLens, primaryTableBits, huffcode.LitLenClass)
	if err != nil {
		fail(codecerr.ErrBadData, "invalid litlen table: "+err.Error())
	}
	distTable, err := huffcode.BuildDecodeTable(distLens, primaryTableBits, huffcode.DistClass)
	if err != nil {
		fail(codecerr.ErrBadData, "invalid distance table: "+err.Error())
	}
	return litTable, distTable
}

// decodeHuffmanBlock runs the hot symbol-decode loop spec.md §4.7
// describes: while ample input and output remain, refill opportunistically
// and decode litlen/distance symbols without a per-symbol bounds check;
// fall back to a carefully-checked slow path near either buffer's end or
// end-of-block.
func (r *Reader) decodeHuffmanBlock(br *bitio.Reader, dst []byte, out int, litTable, distTable *huffcode.DecodeTable) int {
	r.state = stateBlockBody
	for {
		if br.Remaining() >= fastLoopMinInput && len(dst)-out >= fastLoopMinOutput {
			var ok bool
			out, ok = r.decodeOneSymbol(br, dst, out, litTable, distTable, true)
			if !ok {
				return out
			}
			continue
		}
		var ok bool
		out, ok = r.decodeOneSymbol(br, dst, out, litTable, distTable, false)
		if !ok {
			return out
		}
	}
}

// decodeOneSymbol decodes exactly one litlen symbol (and, for a match, its
// paired distance symbol) and applies it to dst, returning the new output
// length and false once end-of-block is reached. fast tells it the caller
// has already guaranteed (via fastLoopMinInput/fastLoopMinOutput) that this
// one symbol cannot exhaust either the bit accumulator or dst: extra-bit
// reads skip their EOF check and both output-space checks are skipped
// entirely. Checks that verify the bitstream's *content* rather than a
// margin — an invalid codeword, a distance reaching before the start of
// output — always run, fast or not.
func (r *Reader) decodeOneSymbol(br *bitio.Reader, dst []byte, out int, litTable, distTable *huffcode.DecodeTable, fast bool) (int, bool) {
	br.Refill()
	e, consumed := litTable.Lookup(br.PeekBits(huffcode.MaxLitLenCodeLen))
	if consumed == 0 {
		fail(codecerr.ErrBadData, "invalid litlen symbol")
	}
	br.DropBits(consumed)

	switch e.Kind {
	case huffcode.KindLiteral:
		if !fast && out >= len(dst) {
			fail(codecerr.ErrInsufficientSpace, "literal overflows output buffer")
		}
		dst[out] = byte(e.Base)
		return out + 1, true

	case huffcode.KindEndOfBlock:
		return out, false

	case huffcode.KindLength:
		length := e.Base
		if e.ExtraBits > 0 {
			extra, ok := readExtraBits(br, uint(e.ExtraBits), fast)
			if !ok {
				fail(codecerr.ErrShortInput, "truncated length extra bits")
			}
			length += int(extra)
		}
		r.state = statePendingMatch

		br.Refill()
		de, dconsumed := distTable.Lookup(br.PeekBits(huffcode.MaxDistCodeLen))
		if dconsumed == 0 || de.Kind != huffcode.KindDistance {
			fail(codecerr.ErrBadData, "invalid distance symbol")
		}
		br.DropBits(dconsumed)
		dist := de.Base
		if de.ExtraBits > 0 {
			extra, ok := readExtraBits(br, uint(de.ExtraBits), fast)
			if !ok {
				fail(codecerr.ErrShortInput, "truncated distance extra bits")
			}
			dist += int(extra)
		}
		r.state = stateBlockBody

		if dist > out {
			fail(codecerr.ErrBadData, "match distance exceeds current output position")
		}
		if !fast && out+length > len(dst) {
			fail(codecerr.ErrInsufficientSpace, "match overflows output buffer")
		}
		copyMatch(dst, out, dist, length)
		return out + length, true

	default:
		fail(codecerr.ErrBadData, "invalid litlen symbol")
		panic("unreachable")
	}
}

// readExtraBits reads n extra bits following a length/distance symbol. In
// the fast path the caller's margin already guarantees n bits are
// available, so it skips straight to Peek/Drop instead of paying for
// ReadBits' own EOF loop.
func readExtraBits(br *bitio.Reader, n uint, fast bool) (uint32, bool) {
	if fast {
		br.Refill()
		v := br.PeekBits(n)
		br.DropBits(n)
		return v, true
	}
	br.Refill()
	return br.ReadBits(n)
}

// Package matchfinder implements the three LZ77 back-reference searchers
// over a 32 KiB window spec.md §4.4 calls for: hash-only (level 1),
// hash-chain (levels 2-9), and binary-tree (levels 10-12). All three work
// directly against the caller's full input slice (never copying it) and
// report positions as ordinary Go ints; internally, table entries are
// stored as int32 offsets from a rebasing base_offset so the tables stay
// compact even over multi-gigabyte inputs, per spec.md §3's "Match-finder
// tables" invariant.
package matchfinder

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/elliotnunn/deflatekit/internal/cpufeatures"
)

const (
	MinMatchLength  = 3
	MaxMatchLength  = 258
	MaxMatchOffset  = 32768
	hashMultiplier  = 0x1E35A7BD
	hashChainOrder  = 15
	hashChainBits   = 32 - hashChainOrder
	btreeHashShift  = 16
	rebaseThreshold = math.MaxInt32 - (1 << 20)
)

// Match is the (length, distance) pair spec.md §3 defines, with
// 3<=length<=258 and 1<=distance<=32768.
type Match struct {
	Length   int
	Distance int
}

// Finder is the common surface spec.md §4.4 specifies for all three
// strategies.
type Finder interface {
	// Reset clears all tables, as if newly constructed.
	Reset()
	// SetData points the finder at the buffer it will search; it does not
	// copy data. Called once per input.
	SetData(data []byte)
	// Advance notifies the finder that positions [pos, pos+consumed) have
	// already been accounted for via Find/FindAll (NOT via Skip), so it
	// only needs to index any positions it hasn't seen yet up to there.
	// Most callers use Find/FindAll/Skip exclusively and never call this
	// directly; it exists for parity with spec.md's listed surface.
	Advance(pos, consumed int)
	// Find returns the best match at pos, or length 0 if none qualifies
	// (shorter than MinMatchLength). maxDepth bounds the search effort;
	// niceLen ends the search early once a match that long is found.
	Find(pos int, maxDepth int, niceLen int) Match
	// FindAll appends every strictly-improving match found while
	// searching at pos (used by the near-optimal DP parser) to dst and
	// returns the grown slice.
	FindAll(pos int, maxDepth int, niceLen int, dst []Match) []Match
	// Skip indexes position pos (and, for hash-chain/binary-tree,
	// chains/trees it) without computing or returning any match, used
	// when a parser has decided to skip over the interior of an already
	// emitted match.
	Skip(pos int)
}

func hash3(data []byte, pos int) uint32 {
	v := uint32(data[pos]) | uint32(data[pos+1])<<8 | uint32(data[pos+2])<<16
	return (v * hashMultiplier) >> hashChainBits
}

func hash3Wide(data []byte, pos int, shift uint) uint32 {
	v := uint32(data[pos]) | uint32(data[pos+1])<<8 | uint32(data[pos+2])<<16
	return (v * hashMultiplier) >> (32 - shift)
}

func hash4(data []byte, pos int) uint32 {
	v := binary.LittleEndian.Uint32(data[pos:])
	return (v * hashMultiplier) >> (32 - btreeHashShift)
}

// matchLen computes the length of the common prefix of a[:] and b[:],
// capped at max, using the classic 8-bytes-at-a-time XOR/trailing-zeros
// kernel spec.md §4.4 calls the "match-length kernel": wide comparisons
// pinpoint the first differing byte via bits.TrailingZeros64(diff)/8,
// falling through to a byte-at-a-time tail. This scalar 64-bit form is
// spec.md's canonical reference; the pack has no SIMD kernel to dispatch
// to in its place (see internal/cpufeatures and SPEC_FULL.md §9), so no
// wider kernel is registered alongside it.
func matchLenScalar(a, b []byte, max int) int {
	n := 0
	for n+8 <= max {
		x := binary.LittleEndian.Uint64(a[n:])
		y := binary.LittleEndian.Uint64(b[n:])
		if diff := x ^ y; diff != 0 {
			return n + bits.TrailingZeros64(diff)/8
		}
		n += 8
	}
	for n < max && a[n] == b[n] {
		n++
	}
	return n
}

type matchLenFunc func(a, b []byte, max int) int

// matchLenKernels registers every available match-length implementation
// with cpufeatures, which picks the best the running CPU supports; today
// that is always the scalar kernel (see cpufeatures and SPEC_FULL.md §9),
// but the finders call through the selected matchLen rather than
// matchLenScalar directly, so a future wider kernel needs only a second
// entry here.
var matchLenKernels = []cpufeatures.Kernel{
	{Level: cpufeatures.LevelScalar, Impl: matchLenFunc(matchLenScalar)},
}

var matchLen = cpufeatures.Select(matchLenKernels).(matchLenFunc)

// base tracks the rebasing offset shared by all three finders: stored
// table positions are int32(absolutePos - base). rebase is called before
// indexing a position that would overflow int32 once shifted.
//
// It also tracks highWater, the first position not yet inserted into the
// finder's tables. The lazy parsers (internal/parser) can search a position
// with a lookahead Find and then Skip over that same position once the
// lookahead loses, so Find/Skip must tolerate being called more than once
// at a given position; firstVisit reports whether pos should actually be
// inserted (true only the first time), while the caller still performs its
// normal chain search either way. HashChain and HashOnly use it;
// BinaryTree does not.
type base struct {
	offset    int
	highWater int
}

func (b *base) rel(pos int) int32 { return int32(pos - b.offset) }

func (b *base) needsRebase(pos int) bool {
	return pos-b.offset >= rebaseThreshold
}

func (b *base) firstVisit(pos int) bool {
	if pos < b.highWater {
		return false
	}
	b.highWater = pos + 1
	return true
}

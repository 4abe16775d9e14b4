package parser

import (
	"github.com/elliotnunn/deflatekit/internal/huffcode"
	"github.com/elliotnunn/deflatekit/internal/matchfinder"
)

// parseNearOptimal implements spec.md §4.5's two-pass near-optimal parser
// for levels 10-12. The probe pass is an ordinary greedy walk over the
// binary-tree finder: it establishes a tentative block end (via the same
// block-split observer the other strategies use) and realistic litlen/
// distance frequencies. The cost pass then builds provisional Huffman
// codes from those frequencies, derives a per-symbol bit cost, and runs a
// single-source-shortest-path dynamic program over every match the finder
// reports at each position to find the cheapest way to tile the block.
func parseNearOptimal(data []byte, start int, finder matchfinder.Finder, maxDepth, niceLen int, observer *blockSplitObserver, blk *Block) int {
	probe := Block{Start: start}
	end := parseGreedyOrLazy(data, start, 0, finder, maxDepth, niceLen, observer, &probe)

	litLenCost, distCost := buildCostTables(&probe.Histograms)

	// The cost pass re-walks [start,end) from scratch with its own
	// finder rather than reusing the probe's: the probe already advanced
	// the shared finder's tables across this whole range, so a second
	// search there would be re-inserting already-superseded positions.
	// A fresh finder means the DP only ever sees back-references sourced
	// from within the current block, a documented simplification of
	// spec.md's near-optimal parser (still within-spec: a match's source
	// bytes need only precede its use, and every position in [start,end)
	// does precede later positions in the same range).
	costFinder := matchfinder.NewBinaryTree()
	costFinder.SetData(data)
	seqs, lits, hist := costPass(data, start, end, costFinder, maxDepth, niceLen, litLenCost, distCost)

	blk.Sequences = seqs
	blk.Literals = lits
	blk.Histograms = hist
	return end
}

// bitCost is a symbol's cost in 1/256ths of a bit, matching the teacher's
// convention of carrying Huffman/entropy costs as fixed-point integers to
// keep the hot DP loop free of floating point.
type bitCost = uint32

const costScale = 256

func buildCostTables(h *Histograms) (litLen [huffcode.MaxLitLenSymbols]bitCost, dist [huffcode.MaxDistSymbols]bitCost) {
	freqs := h.LitLen
	freqs[huffcode.EndOfBlock]++ // every real block emits exactly one EOB
	litLens, _ := huffcode.BuildCode(freqs[:], huffcode.EmitMaxLitLenCodeLen)
	distFreqs := h.Dist
	distLens, _ := huffcode.BuildCode(distFreqs[:], huffcode.MaxDistCodeLen)

	for i, l := range litLens {
		if l == 0 {
			l = huffcode.EmitMaxLitLenCodeLen // unseen symbol: penalize but keep finite
		}
		litLen[i] = bitCost(l) * costScale
	}
	for i := 257; i <= 285; i++ {
		litLen[i] += bitCost(huffcode.LengthExtraBits[i-257]) * costScale
	}
	for i, l := range distLens {
		if l == 0 {
			l = huffcode.MaxDistCodeLen
		}
		dist[i] = bitCost(l)*costScale + bitCost(huffcode.DistExtraBits[i])*costScale
	}
	return litLen, dist
}

const dpUnreachable = ^uint64(0)

// costPass runs the SSSP dynamic program spec.md §4.5 describes over
// [start,end): dp[p] holds the lowest cost (in 1/256ths of a bit) to reach
// position p from start, and back[p] packs the winning predecessor edge as
// length|offset<<16, length=1 meaning a literal step. It reconstructs the
// Sequence list by walking back from end to start once the forward pass
// completes.
func costPass(data []byte, start, end int, finder matchfinder.Finder, maxDepth, niceLen int, litLenCost [huffcode.MaxLitLenSymbols]bitCost, distCost [huffcode.MaxDistSymbols]bitCost) ([]Sequence, []byte, Histograms) {
	n := end - start
	dp := make([]uint64, n+1)
	back := make([]uint32, n+1)
	for i := range dp {
		dp[i] = dpUnreachable
	}
	dp[0] = 0

	var matches []matchfinder.Match
	for i := 0; i < n; i++ {
		if dp[i] == dpUnreachable {
			continue
		}
		p := start + i

		litCost := uint64(litLenCost[data[p]])
		if cand := dp[i] + litCost; i+1 <= n && cand < dp[i+1] {
			dp[i+1] = cand
			back[i+1] = 1 // length=1, offset=0 => literal
		}

		if p+matchfinder.MinMatchLength > end {
			finder.Skip(p)
			continue
		}
		matches = matches[:0]
		matches = finder.FindAll(p, maxDepth, niceLen, matches)
		for _, m := range matches {
			l := m.Length
			if p+l > end {
				l = end - p
				if l < matchfinder.MinMatchLength {
					continue
				}
			}
			slot := huffcode.DistSlot(m.Distance)
			cost := uint64(litLenCost[huffcode.LengthToSlot[l]]) + uint64(distCost[slot])
			j := i + l
			if cand := dp[i] + cost; cand < dp[j] {
				dp[j] = cand
				back[j] = uint32(l) | uint32(m.Distance)<<16
			}
		}
	}

	return reconstruct(data, start, end, back)
}

func reconstruct(data []byte, start, end int, back []uint32) ([]Sequence, []byte, Histograms) {
	n := end - start
	// Walk backpointers from n to 0, collecting steps in reverse order.
	type step struct {
		length, offset int
	}
	var steps []step
	for i := n; i > 0; {
		edge := back[i]
		length := int(edge & 0xFFFF)
		offset := int(edge >> 16)
		if length == 0 {
			length = 1 // defensive: an unreachable position was never relaxed
		}
		steps = append(steps, step{length, offset})
		i -= length
	}
	// Walk forward through the reversed steps, coalescing consecutive
	// literal steps (offset==0, length==1) into LiteralRun-bearing
	// Sequences terminated by the next match, exactly spec.md §3's
	// Sequence shape.
	var seqs []Sequence
	var lits []byte
	var hist Histograms
	litRun := 0
	pos := start
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if s.offset == 0 {
			lits = append(lits, data[pos])
			hist.AddLiteral(data[pos])
			litRun++
			pos++
			continue
		}
		slot := huffcode.DistSlot(s.offset)
		seqs = append(seqs, Sequence{
			LiteralRun:    litRun,
			MatchLength:   s.length,
			MatchDistance: s.offset,
			DistSlot:      slot,
		})
		hist.AddMatch(s.length, slot)
		litRun = 0
		pos += s.length
	}
	if litRun > 0 {
		seqs = append(seqs, Sequence{LiteralRun: litRun})
	}
	return seqs, lits, hist
}

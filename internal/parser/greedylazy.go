package parser

import (
	"github.com/elliotnunn/deflatekit/internal/huffcode"
	"github.com/elliotnunn/deflatekit/internal/matchfinder"
)

// parseGreedyOrLazy implements spec.md §4.5's greedy/lazy loop for
// lazyDepth 0 (greedy, level 1 and 2-4), 1 (lazy-1, levels 5-7), or 2
// (lazy-2, levels 8-9): at each position it finds the best match; if it's
// shorter than 3 bytes the byte is a literal, otherwise it looks ahead up
// to lazyDepth further positions and shifts to a strictly longer match if
// one turns up. It appends to blk in place and returns the position the
// block was sealed at (by the block-split observer, or end of input).
func parseGreedyOrLazy(data []byte, start int, lazyDepth int, finder matchfinder.Finder, maxDepth, niceLen int, observer *blockSplitObserver, blk *Block) int {
	pos := start
	litRun := 0

	flushLiteral := func(p int) {
		blk.Literals = append(blk.Literals, data[p])
		blk.Histograms.AddLiteral(data[p])
		observer.observeLiteral(data[p])
		litRun++
	}

	emitMatch := func(m matchfinder.Match) {
		slot := huffcode.DistSlot(m.Distance)
		blk.Sequences = append(blk.Sequences, Sequence{
			LiteralRun:    litRun,
			MatchLength:   m.Length,
			MatchDistance: m.Distance,
			DistSlot:      slot,
		})
		litRun = 0
		blk.Histograms.AddMatch(m.Length, slot)
		observer.observeMatch(m.Length, m.Distance)
	}

	for pos < len(data) {
		m := finder.Find(pos, maxDepth, niceLen)
		if m.Length < matchfinder.MinMatchLength {
			flushLiteral(pos)
			pos++
		} else {
			best := m
			bestPos := pos
			for steps := 0; steps < lazyDepth && bestPos+1 < len(data); steps++ {
				cand := finder.Find(bestPos+1, maxDepth, niceLen)
				if cand.Length > best.Length {
					flushLiteral(bestPos)
					bestPos++
					best = cand
				} else {
					break
				}
			}
			emitMatch(best)
			for i := bestPos + 1; i < bestPos+best.Length; i++ {
				finder.Skip(i)
			}
			pos = bestPos + best.Length
		}

		if observer.shouldSeal(len(data) - pos) {
			if litRun > 0 {
				blk.Sequences = append(blk.Sequences, Sequence{LiteralRun: litRun})
			}
			return pos
		}
	}
	if litRun > 0 {
		blk.Sequences = append(blk.Sequences, Sequence{LiteralRun: litRun})
	}
	return pos
}

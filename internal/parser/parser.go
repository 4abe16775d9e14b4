package parser

import "github.com/elliotnunn/deflatekit/internal/matchfinder"

// Strategy identifies which of spec.md §4.5's five parsing algorithms a
// compression level selects.
type Strategy int

const (
	StrategyStore Strategy = iota
	StrategyGreedy
	StrategyLazy1
	StrategyLazy2
	StrategyNearOptimal
)

// tuning holds the maxDepth/niceLen search-effort knobs and the finder
// construction needed for one compression level. The exact per-level
// numbers are an Open Question spec.md §9 leaves to the implementation;
// this table is the decision, recorded in DESIGN.md, loosely shaped after
// zlib's own level table (deeper search and a higher nice-length cutoff at
// higher levels, hash-only below level 2, hash-chain through level 9,
// binary-tree from level 10 up).
type tuning struct {
	strategy Strategy
	maxDepth int
	niceLen  int
}

var levelTable = [13]tuning{
	0:  {StrategyStore, 0, 0},
	1:  {StrategyGreedy, 4, 16},
	2:  {StrategyGreedy, 8, 16},
	3:  {StrategyGreedy, 16, 32},
	4:  {StrategyGreedy, 24, 64},
	5:  {StrategyLazy1, 32, 64},
	6:  {StrategyLazy1, 48, 128},
	7:  {StrategyLazy1, 64, 128},
	8:  {StrategyLazy2, 96, 258},
	9:  {StrategyLazy2, 128, 258},
	10: {StrategyNearOptimal, 96, 258},
	11: {StrategyNearOptimal, 256, 258},
	12: {StrategyNearOptimal, 768, 258},
}

// ForLevel reports the strategy and search-depth tuning for a compression
// level in [0,12], clamping out-of-range levels to the nearest endpoint.
func ForLevel(level int) (Strategy, maxDepth int, niceLen int) {
	if level < 0 {
		level = 0
	}
	if level > 12 {
		level = 12
	}
	t := levelTable[level]
	return t.strategy, t.maxDepth, t.niceLen
}

// NewFinder returns the match finder a strategy needs: hash-only for
// level 1, hash-chain for levels 2-9, binary-tree for levels 10-12 (and
// none at all for store, which never searches).
func NewFinder(strategy Strategy, level int) matchfinder.Finder {
	switch {
	case strategy == StrategyStore:
		return nil
	case level == 1:
		return matchfinder.NewHashOnly()
	case strategy == StrategyNearOptimal:
		return matchfinder.NewBinaryTree()
	default:
		return matchfinder.NewHashChain()
	}
}

// Parse runs the whole of data through the strategy for level, splitting
// it into a sequence of Blocks at the points the block-split observer (or,
// for Store, the 65535-byte stored-block cap) decides to seal.
func Parse(data []byte, level int) []Block {
	strategy, maxDepth, niceLen := ForLevel(level)

	if strategy == StrategyStore {
		return parseStore(data)
	}

	finder := NewFinder(strategy, level)
	finder.SetData(data)
	observer := newBlockSplitObserver()

	var blocks []Block
	pos := 0
	for pos < len(data) {
		var blk Block
		blk.Start = pos
		var end int
		switch strategy {
		case StrategyGreedy:
			end = parseGreedyOrLazy(data, pos, 0, finder, maxDepth, niceLen, observer, &blk)
		case StrategyLazy1:
			end = parseGreedyOrLazy(data, pos, 1, finder, maxDepth, niceLen, observer, &blk)
		case StrategyLazy2:
			end = parseGreedyOrLazy(data, pos, 2, finder, maxDepth, niceLen, observer, &blk)
		case StrategyNearOptimal:
			end = parseNearOptimal(data, pos, finder, maxDepth, niceLen, observer, &blk)
		}
		blk.End = end
		blocks = append(blocks, blk)
		observer.sealAndContinue()
		pos = end
	}
	return blocks
}

const maxStoredBlockLength = 65535

func parseStore(data []byte) []Block {
	var blocks []Block
	for pos := 0; pos < len(data); {
		end := pos + maxStoredBlockLength
		if end > len(data) {
			end = len(data)
		}
		blocks = append(blocks, Block{
			Literals:  data[pos:end],
			Sequences: []Sequence{{LiteralRun: end - pos}},
			Start:     pos,
			End:       end,
		})
		pos = end
	}
	return blocks
}

package matchfinder

// HashChain implements spec.md §4.4's level 2-9 finder: every position is
// pushed onto a linked chain keyed by its 3-byte hash. head[h] holds the
// newest absolute position hashing to h; prev[pos&32767] holds the delta
// back to the previous occurrence at the same hash (0 terminates the
// chain), so a chain walk is simply repeated subtraction. Find applies the
// "compare the tail byte at the current best length before computing the
// full match length" speedup spec.md calls for, and stops at maxDepth hops
// or a match of at least niceLen.
type HashChain struct {
	base
	data []byte
	head []int32
	prev []int32
}

func NewHashChain() *HashChain {
	f := &HashChain{
		head: make([]int32, 1<<hashChainOrder),
		prev: make([]int32, MaxMatchOffset),
	}
	f.Reset()
	return f
}

func (f *HashChain) Reset() {
	for i := range f.head {
		f.head[i] = -1
	}
	for i := range f.prev {
		f.prev[i] = 0
	}
	f.base = base{}
}

func (f *HashChain) SetData(data []byte) { f.data = data }

func (f *HashChain) Advance(pos, consumed int) {
	for i := 0; i < consumed; i++ {
		f.Skip(pos + i)
	}
}

func (f *HashChain) rebase(pos int) {
	for i := range f.head {
		f.head[i] = -1
	}
	for i := range f.prev {
		f.prev[i] = 0
	}
	f.offset = pos
	f.highWater = 0
}

// insert pushes pos onto its hash chain and returns the absolute position
// of the chain's previous head (or -1 if there was none).
func (f *HashChain) insert(pos int) int {
	if f.needsRebase(pos) {
		f.rebase(pos)
	}
	h := hash3(f.data, pos)
	prevAbs := -1
	if f.head[h] >= 0 {
		prevAbs = f.offset + int(f.head[h])
	}
	if f.firstVisit(pos) {
		if prevAbs >= 0 {
			f.prev[pos&(MaxMatchOffset-1)] = int32(pos - prevAbs)
		} else {
			f.prev[pos&(MaxMatchOffset-1)] = 0
		}
		f.head[h] = f.rel(pos)
	}
	return prevAbs
}

func (f *HashChain) Skip(pos int) {
	if pos+3 > len(f.data) {
		return
	}
	f.insert(pos)
}

func (f *HashChain) Find(pos int, maxDepth int, niceLen int) Match {
	return f.search(pos, maxDepth, niceLen, nil)
}

func (f *HashChain) FindAll(pos int, maxDepth int, niceLen int, dst []Match) []Match {
	f.search(pos, maxDepth, niceLen, &dst)
	return dst
}

func (f *HashChain) search(pos int, maxDepth int, niceLen int, all *[]Match) Match {
	d := f.data
	if pos+MinMatchLength > len(d) {
		return Match{}
	}
	cand := f.insert(pos)

	maxLen := len(d) - pos
	if maxLen > MaxMatchLength {
		maxLen = MaxMatchLength
	}

	var best Match
	for depth := 0; cand >= 0 && depth < maxDepth; depth++ {
		dist := pos - cand
		if dist < 1 || dist > MaxMatchOffset {
			break
		}

		if best.Length > 0 {
			tail := pos + best.Length
			if tail >= len(d) || cand+best.Length >= len(d) || d[cand+best.Length] != d[tail] {
				goto next
			}
		}
		if d[cand] == d[pos] && d[cand+1] == d[pos+1] && d[cand+2] == d[pos+2] {
			l := matchLen(d[cand:], d[pos:], maxLen)
			if l >= MinMatchLength && l > best.Length {
				best = Match{Length: l, Distance: dist}
				if all != nil {
					*all = append(*all, best)
				}
				if l >= niceLen || l >= maxLen {
					break
				}
			}
		}

	next:
		delta := f.prev[cand&(MaxMatchOffset-1)]
		if delta == 0 {
			break
		}
		cand -= int(delta)
	}
	return best
}

package matchfinder

// HashOnly is the fastest of the three finders (spec.md §4.4, used at
// level 1): it remembers only the single most recent position for each
// 3-byte hash, with no chaining. It loses a little ratio versus HashChain
// at the same depth but needs no prev-chain array and does at most one
// candidate check per position.
type HashOnly struct {
	base
	data []byte
	head []int32
}

// NewHashOnly returns a ready-to-use HashOnly finder.
func NewHashOnly() *HashOnly {
	f := &HashOnly{head: make([]int32, 1<<hashChainOrder)}
	f.Reset()
	return f
}

func (f *HashOnly) Reset() {
	for i := range f.head {
		f.head[i] = -1
	}
	f.base = base{}
}

func (f *HashOnly) SetData(data []byte) { f.data = data }

func (f *HashOnly) Advance(pos, consumed int) {
	for i := 0; i < consumed; i++ {
		f.Skip(pos + i)
	}
}

func (f *HashOnly) insert(pos int) int {
	if f.needsRebase(pos) {
		f.rebase(pos)
	}
	h := hash3(f.data, pos)
	prevRel := f.head[h]
	if f.firstVisit(pos) {
		f.head[h] = f.rel(pos)
	}
	if prevRel < 0 {
		return -1
	}
	return f.offset + int(prevRel)
}

func (f *HashOnly) rebase(pos int) {
	for i := range f.head {
		f.head[i] = -1
	}
	f.offset = pos
	f.highWater = 0
}

func (f *HashOnly) Skip(pos int) {
	if pos+3 > len(f.data) {
		return
	}
	f.insert(pos)
}

func (f *HashOnly) Find(pos int, maxDepth int, niceLen int) Match {
	if pos+MinMatchLength > len(f.data) {
		return Match{}
	}
	cand := f.insert(pos)
	if cand < 0 {
		return Match{}
	}
	dist := pos - cand
	if dist < 1 || dist > MaxMatchOffset {
		return Match{}
	}
	d := f.data
	if d[cand] != d[pos] || d[cand+1] != d[pos+1] || d[cand+2] != d[pos+2] {
		return Match{}
	}
	max := len(d) - pos
	if max > MaxMatchLength {
		max = MaxMatchLength
	}
	l := matchLen(d[cand:], d[pos:], max)
	if l < MinMatchLength {
		return Match{}
	}
	return Match{Length: l, Distance: dist}
}

func (f *HashOnly) FindAll(pos int, maxDepth int, niceLen int, dst []Match) []Match {
	if m := f.Find(pos, maxDepth, niceLen); m.Length > 0 {
		dst = append(dst, m)
	}
	return dst
}

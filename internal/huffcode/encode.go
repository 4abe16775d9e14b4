package huffcode

import (
	"math/bits"
	"sort"
)

// BuildCode constructs a length-limited canonical Huffman code over the
// symbol domain freqs[0:len(freqs)], per spec.md §4.2:
//
//  1. symbols actually used (freq>0) are sorted ascending by frequency;
//  2. fewer than two used symbols triggers the degenerate 1-bit fallback
//     RFC 1951 and zlib both require so a decoder never has to special-case
//     a zero- or one-code tree;
//  3. otherwise a Huffman tree is built with the classic linear-time
//     two-queue merge (one queue of pre-sorted leaves, one queue of
//     internal nodes created in non-decreasing frequency order — no
//     pointer-heavy priority queue needed because the leaves already come
//     in sorted order);
//  4. per-symbol depths are read back off the parent chain, folded into a
//     per-length histogram, and if any code exceeds maxLen the histogram is
//     rebalanced (fold the overflow into the maxLen bucket, then repeatedly
//     borrow one code from the deepest under-limit bucket and split it into
//     two codes one level deeper until Kraft's inequality holds exactly at
//     maxLen) — a direct, minimal implementation of the "promote a node by
//     collapsing with the deepest shorter bucket" package-merge equivalent
//     spec.md calls for;
//  5. canonical codes are assigned in ascending (length, symbol) order and
//     bit-reversed for LSB-first bitstream emission.
//
// lens[s] is 0 for an unused symbol. codes[s] is only meaningful where
// lens[s]!=0.
func BuildCode(freqs []uint32, maxLen int) (lens []uint8, codes []uint16) {
	n := len(freqs)
	lens = make([]uint8, n)
	codes = make([]uint16, n)

	type leaf struct {
		freq   uint32
		symbol int
	}
	var used []leaf
	for s, f := range freqs {
		if f > 0 {
			used = append(used, leaf{f, s})
		}
	}
	sort.Slice(used, func(i, j int) bool {
		if used[i].freq != used[j].freq {
			return used[i].freq < used[j].freq
		}
		return used[i].symbol < used[j].symbol
	})

	switch len(used) {
	case 0, 1:
		sole := 0
		if len(used) == 1 {
			sole = used[0].symbol
		}
		lens[0] = 1
		codes[0] = 0
		if sole == 0 {
			lens[1] = 1
			codes[1] = 1
		} else {
			lens[sole] = 1
			codes[sole] = 1
		}
		return lens, codes
	}

	sortedFreqs := make([]uint32, len(used))
	for i, lf := range used {
		sortedFreqs[i] = lf.freq
	}
	depth := buildTreeDepths(sortedFreqs)

	maxObserved := 0
	for _, d := range depth {
		if d > maxObserved {
			maxObserved = d
		}
	}
	counts := make([]int, maxLen+1)
	for _, d := range depth {
		l := d
		if l > maxLen {
			l = maxLen
		}
		counts[l]++
	}
	if maxObserved > maxLen {
		limitCodeLengths(counts, maxLen)
	}

	// Reassign: the lowest-frequency symbols (front of `used`) receive the
	// longest surviving lengths first, the highest-frequency symbols
	// receive the shortest.
	cursor := 0
	for length := maxLen; length >= 1; length-- {
		for k := 0; k < counts[length]; k++ {
			lens[used[cursor].symbol] = uint8(length)
			cursor++
		}
	}

	assignCanonicalCodes(lens, codes, maxLen)
	return lens, codes
}

// buildTreeDepths runs the two-queue linear-time Huffman construction over
// pre-sorted (ascending) leaf frequencies and returns each leaf's depth in
// the resulting tree.
func buildTreeDepths(sortedFreqs []uint32) []int {
	n := len(sortedFreqs)
	total := 2*n - 1
	parent := make([]int32, total)
	for i := range parent {
		parent[i] = -1
	}
	freq := make([]uint64, total)
	for i, f := range sortedFreqs {
		freq[i] = uint64(f)
	}

	qi1, qi2 := 0, n
	next := n
	pop := func() int {
		if qi1 < n && (qi2 >= next || freq[qi1] <= freq[qi2]) {
			idx := qi1
			qi1++
			return idx
		}
		idx := qi2
		qi2++
		return idx
	}
	for merges := 0; merges < n-1; merges++ {
		a := pop()
		b := pop()
		freq[next] = freq[a] + freq[b]
		parent[a] = int32(next)
		parent[b] = int32(next)
		next++
	}

	depth := make([]int, n)
	for i := 0; i < n; i++ {
		d := 0
		p := parent[i]
		for p != -1 {
			d++
			p = parent[p]
		}
		depth[i] = d
	}
	return depth
}

// limitCodeLengths rebalances a per-length histogram (counts[1:maxLen+1],
// possibly with overflow already folded into counts[maxLen] by the caller)
// so that it satisfies Kraft's equality exactly at maxLen, preserving the
// total symbol count. This is the classic "fold, then borrow-and-split"
// method: remove one code from the deepest bucket, and replace one code
// from the next-shallower non-empty bucket with two codes one level
// deeper, until the weighted sum matches 2^maxLen exactly.
func limitCodeLengths(counts []int, maxLen int) {
	var total uint64
	for l := maxLen; l >= 1; l-- {
		total += uint64(counts[l]) << uint(maxLen-l)
	}
	target := uint64(1) << uint(maxLen)
	for total != target {
		counts[maxLen]--
		for l := maxLen - 1; l >= 1; l-- {
			if counts[l] > 0 {
				counts[l]--
				counts[l+1] += 2
				break
			}
		}
		total--
	}
}

// assignCanonicalCodes assigns canonical (ascending length, ascending
// symbol) codewords given final per-symbol lengths, bit-reversed for
// LSB-first emission.
func assignCanonicalCodes(lens []uint8, codes []uint16, maxLen int) {
	var blCount [MaxLitLenCodeLen + 2]int
	for _, l := range lens {
		if l > 0 {
			blCount[l]++
		}
	}
	var nextCode [MaxLitLenCodeLen + 2]int
	code := 0
	for bits_ := 1; bits_ <= maxLen+1 && bits_ <= len(nextCode)-1; bits_++ {
		code = (code + blCount[bits_-1]) << 1
		nextCode[bits_] = code
	}
	for sym, l := range lens {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		codes[sym] = bits.Reverse16(uint16(c)) >> (16 - l)
	}
}

package huffcode

import "sync"

// Fixed Huffman codes (RFC 1951 section 3.2.6) are computed once per
// process, exactly the teacher's fixedOnce/fixedHuffmanDecoder pattern
// in internal/flate/inflate.go, generalized to also memoize the canonical
// codewords an encoder needs (the teacher only ever decodes).
var (
	fixedOnce      sync.Once
	fixedLitCodes  []uint16
	fixedDistCodes []uint16
)

func buildFixedCodes() {
	litLens := FixedLitLenLengths()
	fixedLitCodes = make([]uint16, len(litLens))
	assignCanonicalCodes(litLens, fixedLitCodes, MaxLitLenCodeLen)

	distLens := FixedDistLengths()
	fixedDistCodes = make([]uint16, len(distLens))
	assignCanonicalCodes(distLens, fixedDistCodes, MaxDistCodeLen)
}

// FixedLitLenCodes returns the canonical (bit-reversed) codewords for the
// RFC 1951 fixed litlen/length alphabet, indexed by symbol.
func FixedLitLenCodes() []uint16 {
	fixedOnce.Do(buildFixedCodes)
	return fixedLitCodes
}

// FixedDistCodes returns the canonical codewords for the fixed distance
// alphabet (all 5 bits, symbols 0-29).
func FixedDistCodes() []uint16 {
	fixedOnce.Do(buildFixedCodes)
	return fixedDistCodes
}

package blockio

import (
	"github.com/elliotnunn/deflatekit/internal/huffcode"
	"github.com/elliotnunn/deflatekit/internal/parser"
)

// dynamicPlan holds everything WriteBlock needs to actually emit a dynamic
// block, built once by buildDynamicPlan and reused if dynamic turns out to
// be the cheapest option (so the cost comparison never throws away work).
type dynamicPlan struct {
	litLens, distLens   []uint8
	litCodes, distCodes []uint16
	precodeLens         []uint8
	precodeCodes        []uint16
	rle                 []rleSym
	hlit, hdist, hclen  int
	cost                uint64 // total bits: 3-bit header + header table + payload
}

func buildDynamicPlan(h *parser.Histograms) *dynamicPlan {
	freqs := h.LitLen
	freqs[huffcode.EndOfBlock]++ // EOB always occurs exactly once
	litLensFull, litCodesFull := huffcode.BuildCode(freqs[:], huffcode.EmitMaxLitLenCodeLen)
	distLensFull, distCodesFull := huffcode.BuildCode(h.Dist[:], huffcode.MaxDistCodeLen)

	litLens := trimLengths(litLensFull, 257)
	distLens := trimLengths(distLensFull, 1)

	combined := make([]uint8, 0, len(litLens)+len(distLens))
	combined = append(combined, litLens...)
	combined = append(combined, distLens...)

	rle, precodeFreqs := encodeLengths(combined)
	precodeLensFull, precodeCodesFull := huffcode.BuildCode(precodeFreqs[:], huffcode.MaxPrecodeCodeLen)
	precodeOrdered := make([]uint8, huffcode.MaxPrecodeSymbols)
	for i, sym := range huffcode.CodeOrder {
		precodeOrdered[i] = precodeLensFull[sym]
	}
	precodeUsed := trimLengths(precodeOrdered, 4)

	p := &dynamicPlan{
		litLens:      litLens,
		distLens:     distLens,
		litCodes:     litCodesFull,
		distCodes:    distCodesFull,
		precodeLens:  precodeLensFull,
		precodeCodes: precodeCodesFull,
		rle:          rle,
		hlit:         len(litLens) - 257,
		hdist:        len(distLens) - 1,
		hclen:        len(precodeUsed) - 4,
	}

	headerBits := uint64(5 + 5 + 4 + 3*len(precodeUsed))
	for _, s := range rle {
		headerBits += uint64(precodeLensFull[s.Symbol]) + uint64(s.ExtraBits)
	}

	payloadBits := codeBits(litLens, freqs[:]) + codeBits(distLens, h.Dist[:])
	payloadBits += litLenExtraBits(freqs[:]) + distExtraBits(h.Dist[:])

	p.cost = 3 + headerBits + payloadBits
	return p
}

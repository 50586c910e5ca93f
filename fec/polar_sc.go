package fec

import (
	"time"

	"github.com/pkg/errors"
)

// PolarDecodeSC decodes N channel LLRs (positive means bit 0, already rate
// recovered) with a single successive-cancellation path and returns the K
// payload bits. SC decoding always yields a candidate; only malformed input fails.
// Parity-check positions take their value from the parity register, not from
// the LLR sign, so on uplink codes with parity bits the result can differ from
// an L=1 list decode, which prunes a path whose parity bit disagrees.
func PolarDecodeSC(llr []float64, E, K, nMax int, interleave bool) ([]uint8, error) {
	code, err := ConstructPolar(K, E, nMax)
	if err != nil {
		return nil, err
	}
	return code.DecodeSC(llr, interleave)
}

// DecodeSC is PolarDecodeSC for an already constructed code.
func (c *PolarCode) DecodeSC(llr []float64, interleave bool) ([]uint8, error) {
	if len(llr) != c.N {
		return nil, errors.Wrapf(ErrInvalidInput, "got %d LLRs, want N=%d", len(llr), c.N)
	}
	if interleave {
		if _, err := PolarInterleavePattern(c.K); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	p := newPolarPath(c.LogN)
	for phase := 0; phase < c.N; phase++ {
		p.updateLLRs(llr, phase)
		var b uint8
		switch {
		case c.Frozen[phase]:
		case c.isPC[phase]:
			// parity bits are a function of earlier decisions
			b = c.parityAt(p.u, phase)
		default:
			b = p.hardDecision()
		}
		p.commit(phase, b)
	}
	observeDecode(decoderSC, outcomeDecoded, time.Since(start))
	return c.extract(p.u, interleave), nil
}

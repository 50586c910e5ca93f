package fec

import (
	"math"

	"github.com/pkg/errors"
)

// DefaultLLRClamp is the magnitude used for shortened (known-zero) positions
// when PolarRateRecover is given a non-positive clamp.
const DefaultLLRClamp = 1000.0

// polarSubblockIndex is J(n): the codeword index emitted at position n of the
// sub-block interleaved sequence, y[n] = d[J(n)].
func polarSubblockIndex(n, N int) int {
	b := N / 32
	return polarSubblockPattern[n/b]*b + n%b
}

// polarChannelInterleaverPattern returns the triangular interleaver of TS 38.212
// 5.4.1.3 as f[k] = e[perm[k]].
func polarChannelInterleaverPattern(E int) []int {
	T := 0
	for T*(T+1)/2 < E {
		T++
	}
	perm := make([]int, 0, E)
	for j := 0; j < T; j++ {
		for i := 0; i < T-j; i++ {
			// rows are written first: row i starts at i*T - i*(i-1)/2
			if k := i*T - i*(i-1)/2 + j; k < E {
				perm = append(perm, k)
			}
		}
	}
	return perm
}

func checkCodeLength(N int) error {
	if N < 1<<polarMinOrder || N > 1024 || N&(N-1) != 0 {
		return errors.Wrapf(ErrInvalidInput, "code length N=%d, want a power of two in 32..1024", N)
	}
	return nil
}

// PolarRateMatch maps an N-bit codeword to E transmitted bits: sub-block
// interleaving, then repetition, puncturing or shortening selected by (N, K, E),
// then the triangular channel interleaver when bitInterleave is set (uplink).
func PolarRateMatch(codeword []uint8, K, E int, bitInterleave bool) ([]uint8, error) {
	N := len(codeword)
	if err := checkCodeLength(N); err != nil {
		return nil, err
	}
	if K <= 0 || E <= 0 || E > PolarMaxE {
		return nil, errors.Wrapf(ErrInvalidInput, "K=%d E=%d", K, E)
	}
	if err := checkBits(codeword); err != nil {
		return nil, err
	}
	y := make([]uint8, N)
	for n := range y {
		y[n] = codeword[polarSubblockIndex(n, N)]
	}
	e := make([]uint8, E)
	switch polarRateMatchModeFor(N, K, E) {
	case PolarRepetition:
		for k := range e {
			e[k] = y[k%N]
		}
	case PolarPuncture:
		copy(e, y[N-E:])
	case PolarShorten:
		copy(e, y[:E])
	}
	if !bitInterleave {
		return e, nil
	}
	f := make([]uint8, E)
	for k, src := range polarChannelInterleaverPattern(E) {
		f[k] = e[src]
	}
	return f, nil
}

// RateMatch is PolarRateMatch for this code's K and E.
func (c *PolarCode) RateMatch(codeword []uint8, bitInterleave bool) ([]uint8, error) {
	if len(codeword) != c.N {
		return nil, errors.Wrapf(ErrInvalidInput, "codeword has %d bits, want N=%d", len(codeword), c.N)
	}
	return PolarRateMatch(codeword, c.K, c.E, bitInterleave)
}

// PolarRateRecover is the soft inverse of PolarRateMatch. Punctured positions get
// LLR 0, shortened positions get +clamp (known zero), repeated positions are
// summed. Every output is limited to [-clamp, clamp].
func PolarRateRecover(llr []float64, K, N int, bitInterleave bool, clamp float64) ([]float64, error) {
	E := len(llr)
	if err := checkCodeLength(N); err != nil {
		return nil, err
	}
	if K <= 0 || E == 0 || E > PolarMaxE {
		return nil, errors.Wrapf(ErrInvalidInput, "K=%d E=%d", K, E)
	}
	if clamp <= 0 || math.IsNaN(clamp) {
		clamp = DefaultLLRClamp
	}
	e := llr
	if bitInterleave {
		e = make([]float64, E)
		for k, dst := range polarChannelInterleaverPattern(E) {
			e[dst] = llr[k]
		}
	}
	y := make([]float64, N)
	switch polarRateMatchModeFor(N, K, E) {
	case PolarRepetition:
		for k, v := range e {
			y[k%N] += v
		}
	case PolarPuncture:
		copy(y[N-E:], e)
	case PolarShorten:
		copy(y, e)
		for n := E; n < N; n++ {
			y[n] = clamp
		}
	}
	d := make([]float64, N)
	for n, v := range y {
		d[polarSubblockIndex(n, N)] = math.Max(-clamp, math.Min(clamp, v))
	}
	return d, nil
}

// RateRecover is PolarRateRecover for this code's K and N. The input length must be E.
func (c *PolarCode) RateRecover(llr []float64, bitInterleave bool, clamp float64) ([]float64, error) {
	if len(llr) != c.E {
		return nil, errors.Wrapf(ErrInvalidInput, "got %d LLRs, want E=%d", len(llr), c.E)
	}
	return PolarRateRecover(llr, c.K, c.N, bitInterleave, clamp)
}

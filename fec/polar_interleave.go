package fec

import "github.com/pkg/errors"

// PolarMaxInterleaveK is K_IL^max, the largest K the input bit interleaver supports.
const PolarMaxInterleaveK = len(polarInterleaverMax)

// PolarInterleavePattern returns Π for a K-bit input: the interleaved sequence is
// c'[k] = c[Π[k]]. Entries of the 164-entry pattern below 164-K are dropped and the
// rest are shifted down by 164-K.
func PolarInterleavePattern(K int) ([]int, error) {
	if K <= 0 || K > PolarMaxInterleaveK {
		return nil, errors.Wrapf(ErrInvalidConfig, "interleaver K=%d, want 1..%d", K, PolarMaxInterleaveK)
	}
	off := PolarMaxInterleaveK - K
	pi := make([]int, 0, K)
	for _, m := range polarInterleaverMax {
		if m >= off {
			pi = append(pi, m-off)
		}
	}
	return pi, nil
}

// PolarInterleave returns c' with c'[k] = c[Π[k]].
func PolarInterleave(c []uint8) ([]uint8, error) {
	pi, err := PolarInterleavePattern(len(c))
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(c))
	for k, src := range pi {
		out[k] = c[src]
	}
	return out, nil
}

// PolarDeinterleave inverts PolarInterleave.
func PolarDeinterleave(cp []uint8) ([]uint8, error) {
	pi, err := PolarInterleavePattern(len(cp))
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(cp))
	for k, dst := range pi {
		out[dst] = cp[k]
	}
	return out, nil
}

// invertMap: if map[new_idx] = old_idx, then invMap[old_idx] = new_idx.
func invertMap(forwardMap []int) []int {
	inverseMap := make([]int, len(forwardMap))
	for newIndex, oldIndex := range forwardMap {
		inverseMap[oldIndex] = newIndex
	}
	return inverseMap
}

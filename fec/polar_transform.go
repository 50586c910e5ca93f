package fec

import "math"

// polarTransform applies x = u * F^{⊗n} in place over GF(2), F = [[1,0],[1,1]].
// The transform is an involution, so applying it to x returns u.
func polarTransform(x []uint8) {
	N := len(x)
	for half := 1; half < N; half <<= 1 {
		block := half << 1
		for start := 0; start < N; start += block {
			for j := 0; j < half; j++ {
				x[start+j] ^= x[start+j+half]
			}
		}
	}
}

// llrF is the min-sum check-node combine used for an upper (left) child.
func llrF(a, b float64) float64 {
	m := math.Min(math.Abs(a), math.Abs(b))
	if (a < 0) != (b < 0) {
		return -m
	}
	return m
}

// llrG is the variable-node combine for a lower (right) child given the left
// sibling's partial sum u.
func llrG(a, b float64, u uint8) float64 {
	if u != 0 {
		return b - a
	}
	return b + a
}

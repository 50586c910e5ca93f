// Package channel produces log-likelihood ratios for simulated links.
// Bit 0 maps to +1 and LLRs are positive for bit 0.
package channel

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Bernoulli implements a simple u<p erasure decision.
type Bernoulli struct {
	p   float64
	rng *rand.Rand
}

func NewBernoulli(p float64, rng *rand.Rand) *Bernoulli { return &Bernoulli{p: p, rng: rng} }

func (b *Bernoulli) Drop() bool {
	if b.p <= 0 {
		return false
	}
	if b.p >= 1 {
		return true
	}
	return b.rng.Float64() < b.p
}

// Erase sets dropped LLRs to 0 and returns how many were erased.
func (b *Bernoulli) Erase(llr []float64) int {
	n := 0
	for i := range llr {
		if b.Drop() {
			llr[i] = 0
			n++
		}
	}
	return n
}

// AWGN is BPSK over additive white Gaussian noise with per-dimension deviation sigma.
type AWGN struct {
	sigma float64
	rng   *rand.Rand
}

// NewAWGN derives sigma from Eb/N0 in dB and the code rate: sigma^2 = 1/(2 R Eb/N0).
func NewAWGN(ebn0dB, rate float64, rng *rand.Rand) (*AWGN, error) {
	if rate <= 0 || math.IsNaN(ebn0dB) {
		return nil, errors.Errorf("channel: rate %v, Eb/N0 %v dB", rate, ebn0dB)
	}
	ebn0 := math.Pow(10, ebn0dB/10)
	return NewAWGNSigma(math.Sqrt(1/(2*rate*ebn0)), rng)
}

func NewAWGNSigma(sigma float64, rng *rand.Rand) (*AWGN, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, errors.Errorf("channel: noise deviation %v", sigma)
	}
	return &AWGN{sigma: sigma, rng: rng}, nil
}

func (c *AWGN) Sigma() float64 { return c.sigma }

// Transmit modulates bits, adds noise and returns the LLRs 2y/sigma^2.
func (c *AWGN) Transmit(bits []uint8) []float64 {
	scale := 2 / (c.sigma * c.sigma)
	out := make([]float64, len(bits))
	for i, b := range bits {
		y := 1 - 2*float64(b&1) + c.sigma*c.rng.NormFloat64()
		out[i] = scale * y
	}
	return out
}

// HardLLR maps bits to +mag (bit 0) or -mag (bit 1) without noise.
func HardLLR(bits []uint8, mag float64) []float64 {
	out := make([]float64, len(bits))
	for i, b := range bits {
		if b&1 == 0 {
			out[i] = mag
		} else {
			out[i] = -mag
		}
	}
	return out
}

package channel

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBernoulliExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	never := NewBernoulli(0, rng)
	always := NewBernoulli(1, rng)
	for i := 0; i < 100; i++ {
		assert.False(t, never.Drop())
		assert.True(t, always.Drop())
	}
}

func TestBernoulliErase(t *testing.T) {
	llr := HardLLR(make([]uint8, 10000), 4)
	n := NewBernoulli(0.25, rand.New(rand.NewSource(2))).Erase(llr)
	zeros := 0
	for _, v := range llr {
		if v == 0 {
			zeros++
		} else {
			assert.Equal(t, 4.0, v)
		}
	}
	assert.Equal(t, n, zeros)
	assert.InDelta(t, 2500, n, 200)
}

func TestAWGNSigmaFromEbN0(t *testing.T) {
	c, err := NewAWGN(0, 0.5, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c.Sigma(), 1e-12)

	_, err = NewAWGN(1, 0, nil)
	assert.Error(t, err)
	_, err = NewAWGNSigma(0, nil)
	assert.Error(t, err)
}

func TestAWGNTransmitStatistics(t *testing.T) {
	c, err := NewAWGNSigma(0.5, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	bits := make([]uint8, 20000)
	for i := range bits {
		bits[i] = uint8(i & 1)
	}
	llr := c.Transmit(bits)
	// LLR = 2y/sigma^2 = 8y, so the mean of |bit 0| symbols is 8.
	var sum0, sum1 float64
	for i, v := range llr {
		if bits[i] == 0 {
			sum0 += v
		} else {
			sum1 += v
		}
	}
	half := float64(len(bits) / 2)
	assert.InDelta(t, 8, sum0/half, 0.2)
	assert.InDelta(t, -8, sum1/half, 0.2)
}

func TestHardLLR(t *testing.T) {
	got := HardLLR([]uint8{0, 1, 1, 0}, 2.5)
	assert.Equal(t, []float64{2.5, -2.5, -2.5, 2.5}, got)
	assert.False(t, math.Signbit(got[0]))
}

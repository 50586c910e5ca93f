package fec_test

import (
	"math/rand"
	"testing"

	"github.com/observe-l/nrpolar/fec"
	"github.com/observe-l/nrpolar/internal/channel"
	"github.com/observe-l/nrpolar/internal/crc"
	"github.com/observe-l/nrpolar/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func encodeNoiseless(t *testing.T, code *fec.PolarCode, c []uint8, interleave bool) []float64 {
	t.Helper()
	x, err := code.Encode(c, interleave)
	require.NoError(t, err)
	e, err := code.RateMatch(x, false)
	require.NoError(t, err)
	llr, err := code.RateRecover(channel.HardLLR(e, 3), false, 0)
	require.NoError(t, err)
	return llr
}

// Attached mode asks the CRC service about candidates best metric first and
// returns the first one it accepts.
func TestSCLAttachedCRCWalksCandidatesInMetricOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockPolarCRC(ctrl)
	m.EXPECT().Len().Return(6).AnyTimes()

	dec, err := fec.NewPolarSCLDecoder(fec.PolarSCLConfig{K: 30, E: 140, NMax: 9, L: 4, CRC: m})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(41))
	sent := make([]uint8, 30)
	for i := range sent {
		sent[i] = uint8(rng.Intn(2))
	}
	var second []uint8
	gomock.InOrder(
		m.EXPECT().Check(gomock.Eq(sent)).Return(nil, false),
		m.EXPECT().Check(gomock.Any()).DoAndReturn(func(bits []uint8) ([]uint8, bool) {
			second = append([]uint8(nil), bits...)
			return bits[:24], true
		}),
	)
	got, ok, err := dec.Decode(encodeNoiseless(t, dec.Code(), sent, false))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.NotEqual(t, sent, got)
}

// Distributed mode derives its per-bit checks from Attach once, at construction.
func TestSCLDistributedCRCBuildsTableFromAttach(t *testing.T) {
	const A, r = 40, 24
	ref := crc.Codec{Params: crc.CRC24C}

	ctrl := gomock.NewController(t)
	m := mocks.NewMockPolarCRC(ctrl)
	m.EXPECT().Len().Return(r).AnyTimes()
	m.EXPECT().Attach(gomock.Any()).DoAndReturn(ref.Attach).Times(A + 1)

	dec, err := fec.NewPolarSCLDecoder(fec.PolarSCLConfig{K: A + r, E: 140, NMax: 9, L: 8, Interleave: true, CRC: m})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	a := make([]uint8, A)
	for i := range a {
		a[i] = uint8(rng.Intn(2))
	}
	c := ref.Attach(a)
	m.EXPECT().Check(gomock.Eq(c)).DoAndReturn(ref.Check)
	got, ok, err := dec.Decode(encodeNoiseless(t, dec.Code(), c, true))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, c, got)
}

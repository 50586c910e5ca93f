package fec_test

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observe-l/nrpolar/fec"
	"github.com/observe-l/nrpolar/internal/channel"
)

type linkProfile struct {
	name string
	cfg  fec.PolarCodecConfig
}

func linkProfiles() []linkProfile {
	return []linkProfile{
		{"broadcast", fec.PolarCodecConfig{A: 32, E: 864, NMax: 9, CRCLen: 24, Interleave: true, L: 8}},
		{"downlink control", fec.PolarCodecConfig{A: 39, E: 108, NMax: 9, CRCLen: 24, PadCRC: true, RNTI: 0x4601, Interleave: true, L: 8}},
		{"uplink parity", fec.PolarCodecConfig{A: 14, E: 100, NMax: 10, CRCLen: 6, ChannelInterleave: true, L: 8}},
		{"uplink crc11", fec.PolarCodecConfig{A: 40, E: 200, NMax: 10, CRCLen: 11, ChannelInterleave: true, L: 8}},
		{"sc", fec.PolarCodecConfig{A: 100, E: 400, NMax: 9, CRCLen: 24, Interleave: true}},
	}
}

func randomPayload(rng *rand.Rand, n int) []uint8 {
	b := make([]uint8, n)
	for i := range b {
		b[i] = uint8(rng.Intn(2))
	}
	return b
}

func TestPolarLinkNoiseless(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, p := range linkProfiles() {
		t.Run(p.name, func(t *testing.T) {
			codec, err := fec.NewPolarCodec(p.cfg)
			require.NoError(t, err)
			for trial := 0; trial < 10; trial++ {
				a := randomPayload(rng, p.cfg.A)
				tx, err := codec.Transmit(a)
				require.NoError(t, err)
				require.Len(t, tx, p.cfg.E)
				got, ok, err := codec.Receive(channel.HardLLR(tx, 4))
				require.NoError(t, err)
				require.True(t, ok, "trial %d", trial)
				require.Equal(t, a, got)
			}
		})
	}
}

func TestPolarLinkErasures(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	cfg := fec.PolarCodecConfig{A: 32, E: 864, NMax: 9, CRCLen: 24, Interleave: true, L: 8}
	codec, err := fec.NewPolarCodec(cfg)
	require.NoError(t, err)
	erase := channel.NewBernoulli(0.2, rng)
	for trial := 0; trial < 20; trial++ {
		a := randomPayload(rng, cfg.A)
		tx, err := codec.Transmit(a)
		require.NoError(t, err)
		llr := channel.HardLLR(tx, 4)
		erase.Erase(llr)
		got, ok, err := codec.Receive(llr)
		require.NoError(t, err)
		require.True(t, ok, "trial %d", trial)
		require.Equal(t, a, got)
	}
}

// Batch decoding must reproduce what a single decoder returns, whatever the outcome.
func TestPolarBatchMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	cfg := fec.PolarSCLConfig{K: 56, E: 240, NMax: 9, L: 4, Interleave: true}
	crc, err := fec.NewPolarCRC(24, false, 0)
	require.NoError(t, err)
	cfg.CRC = crc
	code, err := fec.ConstructPolar(cfg.K, cfg.E, cfg.NMax)
	require.NoError(t, err)

	awgn, err := channel.NewAWGN(1.5, float64(cfg.K)/float64(cfg.E), rng)
	require.NoError(t, err)
	llrs := make([][]float64, 24)
	for i := range llrs {
		c := crc.Attach(randomPayload(rng, cfg.K-crc.Len()))
		x, err := code.Encode(c, true)
		require.NoError(t, err)
		tx, err := code.RateMatch(x, false)
		require.NoError(t, err)
		d, err := code.RateRecover(awgn.Transmit(tx), false, 0)
		require.NoError(t, err)
		llrs[i] = d
	}

	batch, err := fec.PolarDecodeBatch(context.Background(), cfg, llrs, 3)
	require.NoError(t, err)
	dec, err := fec.NewPolarSCLDecoder(cfg)
	require.NoError(t, err)
	for i, llr := range llrs {
		bits, ok, err := dec.Decode(llr)
		require.NoError(t, err)
		assert.Equal(t, ok, batch[i].OK, "codeword %d", i)
		assert.Equal(t, bits, batch[i].Bits, "codeword %d", i)
	}
}

func TestReliabilityTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rel.txt")
	require.NoError(t, fec.Write3GPPTable(path))
	order, err := fec.Load3GPPTable(path)
	require.NoError(t, err)
	require.Len(t, order, 1024)
	assert.True(t, fec.MatchesBuiltinReliability(order))
	assert.Equal(t, fec.PolarReliabilityOrder(1024), order)
}

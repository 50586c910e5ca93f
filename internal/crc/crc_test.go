package crc

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unpack(data []byte) []uint8 {
	out := make([]uint8, 0, 8*len(data))
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			out = append(out, b>>i&1)
		}
	}
	return out
}

func TestComputeCheckValues(t *testing.T) {
	msg := unpack([]byte("123456789"))
	tests := []struct {
		params Params
		want   uint32
	}{
		{CRC6, 0x15},
		{CRC11, 0x5CA},
		{CRC16, 0x31C3},
		{CRC24A, 0xCDE703},
		{CRC24B, 0x23EF52},
		{CRC24C, 0xF48279},
	}
	for _, tt := range tests {
		t.Run(tt.params.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, Codec{Params: tt.params}.Compute(msg))
		})
	}
}

func TestPadAndRNTI(t *testing.T) {
	msg := unpack([]byte("123456789"))
	padded := Codec{Params: CRC24C, PadOnes: true}
	assert.Equal(t, uint32(0xAD5B95), padded.Compute(msg))
	masked := Codec{Params: CRC24C, PadOnes: true, RNTI: 0x1234}
	assert.Equal(t, uint32(0xAD49A1), masked.Compute(msg))

	withCRC := masked.Attach(msg)
	_, ok := padded.Check(withCRC)
	assert.False(t, ok, "RNTI-masked CRC must not verify without the mask")
	_, ok = masked.Check(withCRC)
	assert.True(t, ok)
}

func TestAttachCheckRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, p := range []Params{CRC6, CRC11, CRC16, CRC24A, CRC24B, CRC24C} {
		c := Codec{Params: p}
		for trial := 0; trial < 20; trial++ {
			bits := make([]uint8, 1+rng.Intn(140))
			for i := range bits {
				bits[i] = uint8(rng.Intn(2))
			}
			coded := c.Attach(bits)
			require.Len(t, coded, len(bits)+p.Width)
			payload, ok := c.Check(coded)
			require.True(t, ok, "%s trial %d", p.Name, trial)
			require.Equal(t, bits, payload)

			coded[rng.Intn(len(coded))] ^= 1
			_, ok = c.Check(coded)
			require.False(t, ok, "%s trial %d: single bit error not detected", p.Name, trial)
		}
	}
}

func TestCheckShortInput(t *testing.T) {
	_, ok := Codec{Params: CRC11}.Check(make([]uint8, 5))
	assert.False(t, ok)
}

func TestForLength(t *testing.T) {
	for n, want := range map[int]Params{6: CRC6, 11: CRC11, 16: CRC16, 24: CRC24C} {
		got, err := ForLength(n)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ForLength(8)
	assert.True(t, errors.Is(err, ErrUnsupportedLength))
}

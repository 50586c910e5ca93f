package fec

import "github.com/pkg/errors"

// PolarEncode constructs the code for (len(payload), E, nMax) and returns the
// N-bit codeword before rate matching. When interleave is set the payload is first
// permuted by the distributed-CRC bit interleaver (downlink).
func PolarEncode(payload []uint8, E, nMax int, interleave bool) ([]uint8, error) {
	code, err := ConstructPolar(len(payload), E, nMax)
	if err != nil {
		return nil, err
	}
	return code.Encode(payload, interleave)
}

// Encode places the K payload bits on the information positions, computes the
// parity-check bits, and applies the generator transform.
func (c *PolarCode) Encode(payload []uint8, interleave bool) ([]uint8, error) {
	if len(payload) != c.K {
		return nil, errors.Wrapf(ErrInvalidInput, "payload has %d bits, want K=%d", len(payload), c.K)
	}
	if err := checkBits(payload); err != nil {
		return nil, err
	}
	cp := payload
	if interleave {
		var err error
		if cp, err = PolarInterleave(payload); err != nil {
			return nil, err
		}
	}
	u := c.placeBits(cp)
	polarTransform(u)
	return u, nil
}

// placeBits builds the pre-transform vector u of TS 38.212 5.3.1.2.
func (c *PolarCode) placeBits(cp []uint8) []uint8 {
	u := make([]uint8, c.N)
	var y polarParityRegister
	k := 0
	for i := 0; i < c.N; i++ {
		y.rotate()
		switch {
		case c.Frozen[i]:
		case c.isPC[i]:
			u[i] = y.bit()
		default:
			u[i] = cp[k]
			k++
			y.add(u[i])
		}
	}
	return u
}

// parityAt replays the parity register over u[0:phase] and returns the value
// the parity-check bit at phase must take.
func (c *PolarCode) parityAt(u []uint8, phase int) uint8 {
	var y polarParityRegister
	for i := 0; i < phase; i++ {
		y.rotate()
		if !c.Frozen[i] && !c.isPC[i] {
			y.add(u[i])
		}
	}
	y.rotate()
	return y.bit()
}

// extract returns the K payload bits carried by u, undoing the input interleaver if set.
func (c *PolarCode) extract(u []uint8, interleave bool) []uint8 {
	cp := make([]uint8, c.K)
	for k, pos := range c.Info {
		cp[k] = u[pos]
	}
	if !interleave {
		return cp
	}
	out, err := PolarDeinterleave(cp)
	if err != nil {
		// K was validated against the interleaver when the decoder was built.
		panic(err)
	}
	return out
}

// polarParityRegister is the 5-bit cyclic shift register y0..y4; y0 sits at pos.
type polarParityRegister struct {
	r   [5]uint8
	pos int
}

func (y *polarParityRegister) rotate() {
	y.pos++
	if y.pos == len(y.r) {
		y.pos = 0
	}
}

func (y *polarParityRegister) bit() uint8   { return y.r[y.pos] }
func (y *polarParityRegister) add(b uint8) { y.r[y.pos] ^= b }

func checkBits(b []uint8) error {
	for i, v := range b {
		if v > 1 {
			return errors.Wrapf(ErrInvalidInput, "bit %d has value %d", i, v)
		}
	}
	return nil
}

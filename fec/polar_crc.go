package fec

import (
	"github.com/observe-l/nrpolar/internal/crc"
	"github.com/pkg/errors"
)

//go:generate mockgen -destination=../internal/mocks/polar_crc.go -package=mocks github.com/observe-l/nrpolar/fec PolarCRC

// PolarCRC is the CRC service the list decoder and PolarCodec consume.
// Attach must be affine in its input (true of every CRC, with or without a
// leading pad or RNTI mask); the distributed check is derived from it.
type PolarCRC interface {
	// Len is the number of CRC bits appended by Attach.
	Len() int
	// Attach returns bits followed by Len() CRC bits.
	Attach(bits []uint8) []uint8
	// Check splits off the trailing CRC and reports whether it matches.
	Check(bits []uint8) ([]uint8, bool)
}

// NewPolarCRC returns the CRC used with polar codes for a CRC of length bits:
// 6 and 11 (uplink), 24 (CRC24C, downlink). padOnes prepends 24 ones as for
// DCI and rnti masks the last 16 CRC bits. length 0 returns nil (no CRC).
func NewPolarCRC(length int, padOnes bool, rnti uint16) (PolarCRC, error) {
	if length == 0 {
		return nil, nil
	}
	switch length {
	case 6, 11, 24:
	default:
		return nil, errors.Wrapf(ErrInvalidConfig, "CRC length %d, want 6, 11 or 24", length)
	}
	p, err := crc.ForLength(length)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return crc.Codec{Params: p, PadOnes: padOnes, RNTI: rnti}, nil
}

// polarCRCCheck is one CRC bit that can be verified as soon as it is decided.
type polarCRCCheck struct {
	expect uint8 // value for an all-zero payload
	deps   []int // u positions of payload bits the CRC bit depends on
}

// polarDistributedCRC gates list decoding paths on CRC bits as they are
// decided. With the input interleaver every CRC24C bit follows the payload
// bits it depends on; a CRC bit that does not is left for the final check.
type polarDistributedCRC struct {
	checkAt  []int // per u position: index into checks, or -1
	checks   []polarCRCCheck
	complete bool // every CRC bit is gated during decoding
}

func newPolarDistributedCRC(code *PolarCode, c PolarCRC) (*polarDistributedCRC, error) {
	r := c.Len()
	A := code.K - r
	if A <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "CRC length %d leaves no payload in K=%d", r, code.K)
	}
	pi, err := PolarInterleavePattern(code.K)
	if err != nil {
		return nil, err
	}
	inv := invertMap(pi) // c index -> c' index

	a := make([]uint8, A)
	base := c.Attach(a)
	if len(base) != code.K {
		return nil, errors.Wrapf(ErrInvalidConfig, "CRC service returned %d bits for %d, want %d", len(base), A, code.K)
	}
	base = append([]uint8(nil), base[A:]...)

	// cols[i][j] = 1 when CRC bit j depends on payload bit i.
	cols := make([][]uint8, A)
	for i := range cols {
		a[i] = 1
		col := c.Attach(a)
		a[i] = 0
		if len(col) != code.K {
			return nil, errors.Wrapf(ErrInvalidConfig, "CRC service returned %d bits for %d, want %d", len(col), A, code.K)
		}
		cols[i] = make([]uint8, r)
		for j := range cols[i] {
			cols[i][j] = col[A+j] ^ base[j]
		}
	}

	d := &polarDistributedCRC{checkAt: make([]int, code.N), complete: true}
	for i := range d.checkAt {
		d.checkAt[i] = -1
	}
	for j := 0; j < r; j++ {
		k := inv[A+j]
		chk := polarCRCCheck{expect: base[j]}
		early := true
		for i := 0; i < A; i++ {
			if cols[i][j] == 0 {
				continue
			}
			if inv[i] > k {
				early = false
				break
			}
			chk.deps = append(chk.deps, code.Info[inv[i]])
		}
		if !early {
			d.complete = false
			continue
		}
		d.checkAt[code.Info[k]] = len(d.checks)
		d.checks = append(d.checks, chk)
	}
	return d, nil
}

// gated reports whether a CRC bit is checked at phase.
func (d *polarDistributedCRC) gated(phase int) bool { return d.checkAt[phase] >= 0 }

// passes reports whether the CRC bit decided at phase agrees with the payload
// bits decided before it. Phases without a check always pass.
func (d *polarDistributedCRC) passes(u []uint8, phase int) bool {
	idx := d.checkAt[phase]
	if idx < 0 {
		return true
	}
	chk := &d.checks[idx]
	v := chk.expect
	for _, pos := range chk.deps {
		v ^= u[pos]
	}
	return v == u[phase]
}

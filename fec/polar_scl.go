package fec

import (
	"sort"
	"time"

	"github.com/pkg/errors"
)

// PolarMaxListSize bounds the list size accepted by the SCL decoder.
const PolarMaxListSize = 64

// PolarSCLConfig selects the code and the validation used by a list decoder.
type PolarSCLConfig struct {
	K, E, NMax int
	L          int
	// Interleave undoes the downlink input interleaver. Together with a CRC it
	// switches to distributed checking: after each CRC bit is branched, children
	// whose bit disagrees with the payload decided so far are dropped.
	Interleave bool
	// CRC is the CRC attached to the payload, nil for none. Its length is part of K.
	CRC PolarCRC
}

// PolarSCLDecoder is a successive-cancellation list decoder for one code.
// It reuses its path pool between calls and is not safe for concurrent use;
// build one decoder per goroutine.
type PolarSCLDecoder struct {
	cfg  PolarSCLConfig
	code *PolarCode
	list *polarPathList
	dcrc *polarDistributedCRC

	cands []polarCandidate
	keep  [][2]bool
	order []int
}

type polarCandidate struct {
	metric float64
	slot   int
	bit    uint8
}

// NewPolarSCLDecoder constructs the code and, in distributed mode, the CRC
// check table.
func NewPolarSCLDecoder(cfg PolarSCLConfig) (*PolarSCLDecoder, error) {
	if cfg.L < 1 || cfg.L > PolarMaxListSize {
		return nil, errors.Wrapf(ErrInvalidInput, "list size L=%d, want 1..%d", cfg.L, PolarMaxListSize)
	}
	code, err := ConstructPolar(cfg.K, cfg.E, cfg.NMax)
	if err != nil {
		return nil, err
	}
	if cfg.Interleave {
		if _, err := PolarInterleavePattern(code.K); err != nil {
			return nil, err
		}
	}
	d := &PolarSCLDecoder{
		cfg:   cfg,
		code:  code,
		list:  newPolarPathList(cfg.L, code.LogN),
		cands: make([]polarCandidate, 0, 2*cfg.L),
		keep:  make([][2]bool, cfg.L),
		order: make([]int, 0, cfg.L),
	}
	if cfg.CRC != nil {
		if cfg.CRC.Len() >= code.K {
			return nil, errors.Wrapf(ErrInvalidConfig, "CRC length %d leaves no payload in K=%d", cfg.CRC.Len(), code.K)
		}
		if cfg.Interleave {
			if d.dcrc, err = newPolarDistributedCRC(code, cfg.CRC); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// Code returns the code structure the decoder was built for.
func (d *PolarSCLDecoder) Code() *PolarCode { return d.code }

// Decode runs list decoding over N rate-recovered LLRs. It returns the K bits
// (payload followed by CRC) of the best surviving path. ok is false when every
// path was pruned or no survivor passes the CRC; that is not an error.
func (d *PolarSCLDecoder) Decode(llr []float64) ([]uint8, bool, error) {
	if len(llr) != d.code.N {
		return nil, false, errors.Wrapf(ErrInvalidInput, "got %d LLRs, want N=%d", len(llr), d.code.N)
	}
	start := time.Now()
	out, outcome := d.decode(llr)
	observeDecode(decoderSCL, outcome, time.Since(start))
	return out, outcome == outcomeDecoded, nil
}

func (d *PolarSCLDecoder) decode(llr []float64) ([]uint8, string) {
	code, pl := d.code, d.list
	pl.reset()
	for phase := 0; phase < code.N; phase++ {
		for _, i := range pl.activeIndices() {
			pl.paths[i].updateLLRs(llr, phase)
		}
		if code.Frozen[phase] {
			for _, i := range pl.activeIndices() {
				pl.paths[i].commit(phase, 0)
			}
			continue
		}
		d.extend(phase)
		if code.isPC[phase] {
			d.prune(func(p *polarPath) bool { return p.u[phase] == code.parityAt(p.u, phase) })
		}
		if d.dcrc != nil && d.dcrc.gated(phase) {
			d.prune(func(p *polarPath) bool { return d.dcrc.passes(p.u, phase) })
		}
		if pl.activeCount() == 0 {
			return nil, outcomeEarlyStop
		}
	}

	d.order = append(d.order[:0], pl.activeIndices()...)
	sort.SliceStable(d.order, func(a, b int) bool {
		return pl.paths[d.order[a]].metric < pl.paths[d.order[b]].metric
	})
	for _, i := range d.order {
		c := code.extract(pl.paths[i].u, d.cfg.Interleave)
		if d.cfg.CRC == nil {
			return c, outcomeDecoded
		}
		if _, ok := d.cfg.CRC.Check(c); ok {
			return c, outcomeDecoded
		}
	}
	return nil, outcomeCRCFail
}

// extend decides a non-frozen phase. While the list has room every path
// splits; otherwise the best L of the 2M candidates survive, ranked by metric
// then slot then bit so ties never change the survivor count.
func (d *PolarSCLDecoder) extend(phase int) {
	pl := d.list
	idx := pl.activeIndices()
	for _, i := range idx {
		pl.paths[i].candidates()
	}
	if 2*len(idx) <= pl.size() {
		for _, i := range idx {
			j := pl.clone(i)
			pl.paths[i].commit(phase, 0)
			pl.paths[j].commit(phase, 1)
		}
		return
	}

	d.cands = d.cands[:0]
	for _, i := range idx {
		p := &pl.paths[i]
		d.cands = append(d.cands,
			polarCandidate{metric: p.next[0], slot: i, bit: 0},
			polarCandidate{metric: p.next[1], slot: i, bit: 1})
	}
	sort.Slice(d.cands, func(a, b int) bool {
		x, y := d.cands[a], d.cands[b]
		if x.metric != y.metric {
			return x.metric < y.metric
		}
		if x.slot != y.slot {
			return x.slot < y.slot
		}
		return x.bit < y.bit
	})
	for i := range d.keep {
		d.keep[i] = [2]bool{}
	}
	for _, c := range d.cands[:pl.size()] {
		d.keep[c.slot][c.bit] = true
	}

	// free slots first so that clones below always find room
	pruned := 0
	for _, i := range idx {
		if k := d.keep[i]; !k[0] && !k[1] {
			pl.deactivate(i)
			pruned++
		}
	}
	polarPathsPruned.Add(float64(pruned))
	for _, i := range idx {
		switch k := d.keep[i]; {
		case k[0] && k[1]:
			j := pl.clone(i)
			pl.paths[i].commit(phase, 0)
			pl.paths[j].commit(phase, 1)
		case k[0]:
			pl.paths[i].commit(phase, 0)
		case k[1]:
			pl.paths[i].commit(phase, 1)
		}
	}
}

// prune deactivates every active path for which ok returns false.
func (d *PolarSCLDecoder) prune(ok func(p *polarPath) bool) {
	pl := d.list
	pruned := 0
	for _, i := range pl.activeIndices() {
		if !ok(&pl.paths[i]) {
			pl.deactivate(i)
			pruned++
		}
	}
	polarPathsPruned.Add(float64(pruned))
}

// PolarDecodeSCL builds a list decoder for one call. crcLen is 0, 6, 11 or 24;
// padCRC and rnti describe how the CRC was attached.
func PolarDecodeSCL(llr []float64, E, K, L, nMax int, interleave bool, crcLen int, padCRC bool, rnti int) ([]uint8, bool, error) {
	if rnti < 0 || rnti > 0xFFFF {
		return nil, false, errors.Wrapf(ErrInvalidConfig, "RNTI %d does not fit 16 bits", rnti)
	}
	c, err := NewPolarCRC(crcLen, padCRC, uint16(rnti))
	if err != nil {
		return nil, false, err
	}
	d, err := NewPolarSCLDecoder(PolarSCLConfig{K: K, E: E, NMax: nMax, L: L, Interleave: interleave, CRC: c})
	if err != nil {
		return nil, false, err
	}
	return d.Decode(llr)
}

package fec

import "math/bits"

// polarPath is one decoding candidate. Layer n (the channel LLRs) is shared by
// every path and never copied; layers 0..n-1 live in flat arrays:
//
//	llr:  layer λ (2^λ values) at offset 2^λ-1, N-1 values in total
//	bits: layer λ side s (2^λ values) at offset 2(2^λ-1)+s*2^λ, 2N-2 values in total
//
// u holds the decided bit for every phase up to the current one.
type polarPath struct {
	n      int
	llr    []float64
	bits   []uint8
	u      []uint8
	metric float64
	next   [2]float64 // candidate metrics for bit 0 and bit 1 at the current phase
}

func newPolarPath(n int) polarPath {
	N := 1 << n
	return polarPath{
		n:    n,
		llr:  make([]float64, N-1),
		bits: make([]uint8, 2*N-2),
		u:    make([]uint8, N),
	}
}

func (p *polarPath) reset() {
	p.metric = 0
	p.next = [2]float64{}
}

func (p *polarPath) llrLayer(layer int) []float64 {
	off := 1<<layer - 1
	return p.llr[off : off+1<<layer]
}

func (p *polarPath) bitLayer(layer, side int) []uint8 {
	off := 2*(1<<layer-1) + side<<layer
	return p.bits[off : off+1<<layer]
}

// decisionLLR is the layer-0 LLR for the current phase.
func (p *polarPath) decisionLLR() float64 { return p.llr[0] }

// updateLLRs recomputes the layers that change at phase, top down. Layers at or
// above the lowest set bit of phase are still valid from earlier phases.
func (p *polarPath) updateLLRs(ch []float64, phase int) {
	start := p.n - 1
	if phase != 0 {
		start = bits.TrailingZeros(uint(phase))
	}
	for layer := start; layer >= 0; layer-- {
		var in []float64
		if layer+1 == p.n {
			in = ch
		} else {
			in = p.llrLayer(layer + 1)
		}
		out := p.llrLayer(layer)
		half := len(out)
		if phase>>layer&1 == 1 {
			left := p.bitLayer(layer, 0)
			for i := range out {
				out[i] = llrG(in[i], in[i+half], left[i])
			}
			continue
		}
		for i := range out {
			out[i] = llrF(in[i], in[i+half])
		}
	}
}

// propagateBits records b at phase and folds completed sibling pairs upward
// into their parent's partial sums.
func (p *polarPath) propagateBits(phase int, b uint8) {
	p.u[phase] = b
	p.bitLayer(0, phase&1)[0] = b
	for layer := 0; phase>>layer&1 == 1 && layer < p.n-1; layer++ {
		l := p.bitLayer(layer, 0)
		r := p.bitLayer(layer, 1)
		dst := p.bitLayer(layer+1, phase>>(layer+1)&1)
		size := len(l)
		for i := range l {
			dst[i] = l[i] ^ r[i]
			dst[i+size] = r[i]
		}
	}
}

// hardDecision is the bit favoured by the layer-0 LLR.
func (p *polarPath) hardDecision() uint8 {
	if p.decisionLLR() < 0 {
		return 1
	}
	return 0
}

// penalty is the metric increase for deciding b against the layer-0 LLR.
func (p *polarPath) penalty(b uint8) float64 {
	l := p.decisionLLR()
	if (b == 1) != (l < 0) {
		if l < 0 {
			return -l
		}
		return l
	}
	return 0
}

// candidates fills next with the metrics of both possible decisions.
func (p *polarPath) candidates() {
	p.next[0] = p.metric + p.penalty(0)
	p.next[1] = p.metric + p.penalty(1)
}

// commit decides b at phase, charging the metric, and updates the partial sums.
func (p *polarPath) commit(phase int, b uint8) {
	p.metric += p.penalty(b)
	p.propagateBits(phase, b)
}

// cloneInto deep-copies p's trees and metric into dst.
func (p *polarPath) cloneInto(dst *polarPath) {
	copy(dst.llr, p.llr)
	copy(dst.bits, p.bits)
	copy(dst.u, p.u)
	dst.metric = p.metric
	dst.next = p.next
}

// polarPathList is a fixed pool of L path slots. Inactive slots are kept on a
// free stack so activation never allocates.
type polarPathList struct {
	paths  []polarPath
	active []bool
	free   []int
	order  []int // scratch for activeIndices
}

func newPolarPathList(L, n int) *polarPathList {
	pl := &polarPathList{
		paths:  make([]polarPath, L),
		active: make([]bool, L),
		free:   make([]int, 0, L),
		order:  make([]int, 0, L),
	}
	for i := range pl.paths {
		pl.paths[i] = newPolarPath(n)
	}
	pl.reset()
	return pl
}

// reset marks every slot inactive and then activates slot 0.
func (pl *polarPathList) reset() {
	pl.free = pl.free[:0]
	for i := len(pl.paths) - 1; i >= 0; i-- {
		pl.active[i] = false
		pl.free = append(pl.free, i)
	}
	pl.activate(pl.firstInactive())
	pl.paths[0].reset()
}

func (pl *polarPathList) size() int { return len(pl.paths) }

func (pl *polarPathList) activeCount() int { return len(pl.paths) - len(pl.free) }

func (pl *polarPathList) isActive(i int) bool { return pl.active[i] }

// activeIndices returns the active slots in ascending order. The slice is
// reused by the next call.
func (pl *polarPathList) activeIndices() []int {
	pl.order = pl.order[:0]
	for i, a := range pl.active {
		if a {
			pl.order = append(pl.order, i)
		}
	}
	return pl.order
}

// firstInactive returns the slot the next activation will use, or -1.
func (pl *polarPathList) firstInactive() int {
	if len(pl.free) == 0 {
		return -1
	}
	return pl.free[len(pl.free)-1]
}

func (pl *polarPathList) activate(i int) {
	if pl.active[i] {
		return
	}
	for k := len(pl.free) - 1; k >= 0; k-- {
		if pl.free[k] == i {
			pl.free = append(pl.free[:k], pl.free[k+1:]...)
			break
		}
	}
	pl.active[i] = true
}

func (pl *polarPathList) deactivate(i int) {
	if !pl.active[i] {
		return
	}
	pl.active[i] = false
	pl.free = append(pl.free, i)
}

// clone copies slot src into a free slot, activates it and returns its index.
func (pl *polarPathList) clone(src int) int {
	dst := pl.firstInactive()
	if dst < 0 {
		panic("polar: path list exhausted")
	}
	pl.activate(dst)
	pl.paths[src].cloneInto(&pl.paths[dst])
	return dst
}

package fec

import (
	"math/bits"

	"github.com/pkg/errors"
)

const (
	polarMinOrder = 5
	// PolarMaxE bounds the rate-matched length accepted by ConstructPolar.
	PolarMaxE = 8192
)

// PolarRateMatchMode selects how the N-bit codeword is adapted to E bits.
type PolarRateMatchMode uint8

const (
	PolarRepetition PolarRateMatchMode = iota // E >= N
	PolarPuncture                             // E < N and K/E <= 7/16
	PolarShorten                              // E < N and K/E > 7/16
)

func (m PolarRateMatchMode) String() string {
	switch m {
	case PolarRepetition:
		return "repetition"
	case PolarPuncture:
		return "puncture"
	case PolarShorten:
		return "shorten"
	}
	return "unknown"
}

// PolarCode is the code structure derived for one (K, E, nMax) triple.
// It is immutable after construction and safe for concurrent use.
type PolarCode struct {
	K, E  int // K counts payload plus CRC bits, E is the rate-matched length
	N     int
	LogN  int
	NMax  int
	NPC   int // embedded parity-check bits
	NPCwm int // parity bits placed by the minimum-row-weight rule

	Frozen []bool // length N, true for frozen positions
	PC     []int  // parity-check positions, ascending
	Info   []int  // positions carrying c' bits (non-frozen, non-parity), ascending
	Mode   PolarRateMatchMode

	isPC []bool
}

// polarParity is the embedded parity-check layout for a given K and nMax.
type polarParity struct {
	nPC, nPCwm int
	forbidden  bool
}

// polarParityCounts centralises the K-range dispatch: parity bits exist only on the
// uplink (nMax=10) for 18<=K<=25, and 25<K<31 is not a valid uplink size.
func polarParityCounts(K, E, nMax int) polarParity {
	if nMax != 10 {
		return polarParity{}
	}
	switch {
	case K >= 18 && K <= 25:
		p := polarParity{nPC: 3}
		if E-K+3 > 192 {
			p.nPCwm = 1
		}
		return p
	case K > 25 && K < 31:
		return polarParity{forbidden: true}
	}
	return polarParity{}
}

// ConstructPolar derives N, the frozen set, and the parity-check set for (K, E, nMax)
// following TS 38.212 sections 5.3.1 and 5.3.1.2.
func ConstructPolar(K, E, nMax int) (*PolarCode, error) {
	if nMax != 9 && nMax != 10 {
		return nil, errors.Wrapf(ErrInvalidConfig, "nMax=%d, want 9 or 10", nMax)
	}
	if K <= 0 || E <= 0 || E > PolarMaxE {
		return nil, errors.Wrapf(ErrInvalidConfig, "K=%d E=%d", K, E)
	}
	par := polarParityCounts(K, E, nMax)
	if par.forbidden {
		return nil, errors.Wrapf(ErrInvalidConfig, "K=%d lies in the uplink gap 26..30", K)
	}
	if K+par.nPC > E {
		return nil, errors.Wrapf(ErrInvalidConfig, "K=%d plus %d parity bits exceeds E=%d", K, par.nPC, E)
	}
	n := polarCodeOrder(K, E, nMax)
	N := 1 << n
	if K+par.nPC > N {
		return nil, errors.Wrapf(ErrInvalidConfig, "K=%d plus %d parity bits exceeds N=%d", K, par.nPC, N)
	}
	mode := polarRateMatchModeFor(N, K, E)
	preFrozen := polarPreFrozen(N, K, E, mode)

	// Q_I in descending reliability.
	need := K + par.nPC
	qI := make([]int, 0, need)
	for _, idx := range PolarReliabilityOrder(N) {
		if preFrozen[idx] {
			continue
		}
		qI = append(qI, idx)
		if len(qI) == need {
			break
		}
	}
	if len(qI) < need {
		return nil, errors.Wrapf(ErrInvalidConfig, "only %d usable positions for K=%d E=%d N=%d", len(qI), K, E, N)
	}

	code := &PolarCode{
		K: K, E: E, N: N, LogN: n, NMax: nMax,
		NPC: par.nPC, NPCwm: par.nPCwm,
		Frozen: make([]bool, N),
		Mode:   mode,
		isPC:   make([]bool, N),
	}
	for i := range code.Frozen {
		code.Frozen[i] = true
	}
	for _, idx := range qI {
		code.Frozen[idx] = false
	}
	if par.nPC > 0 {
		// least reliable nPC-nPCwm of Q_I
		for _, idx := range qI[K+par.nPCwm:] {
			code.isPC[idx] = true
		}
		if par.nPCwm > 0 {
			code.isPC[polarMinWeightPosition(qI[:K])] = true
		}
	}
	code.Info = make([]int, 0, K)
	for i := 0; i < N; i++ {
		switch {
		case code.Frozen[i]:
		case code.isPC[i]:
			code.PC = append(code.PC, i)
		default:
			code.Info = append(code.Info, i)
		}
	}
	return code, nil
}

// IsParity reports whether position i carries an embedded parity-check bit.
func (c *PolarCode) IsParity(i int) bool { return c.isPC[i] }

// NumFrozen returns N-K-nPC.
func (c *PolarCode) NumFrozen() int { return c.N - c.K - c.NPC }

// polarCodeOrder returns n = log2(N) per TS 38.212 5.3.1.
func polarCodeOrder(K, E, nMax int) int {
	c := ceilLog2(E)
	n1 := c
	if c >= 1 && 8*E <= 9*(1<<(c-1)) && 16*K < 9*E {
		n1 = c - 1
	}
	n2 := ceilLog2(8 * K) // R_min = 1/8
	n := n1
	if n2 < n {
		n = n2
	}
	if nMax < n {
		n = nMax
	}
	if n < polarMinOrder {
		n = polarMinOrder
	}
	return n
}

func polarRateMatchModeFor(N, K, E int) PolarRateMatchMode {
	switch {
	case E >= N:
		return PolarRepetition
	case 16*K <= 7*E:
		return PolarPuncture
	}
	return PolarShorten
}

// polarPreFrozen marks Q_F,tmp: positions frozen because rate matching removes
// or forces them.
func polarPreFrozen(N, K, E int, mode PolarRateMatchMode) []bool {
	f := make([]bool, N)
	switch mode {
	case PolarPuncture:
		for n := 0; n < N-E; n++ {
			f[polarSubblockIndex(n, N)] = true
		}
		var lim int
		if 4*E >= 3*N {
			lim = ceilDiv(3*N-2*E, 4)
		} else {
			lim = ceilDiv(9*N-4*E, 16)
		}
		for i := 0; i < lim && i < N; i++ {
			f[i] = true
		}
	case PolarShorten:
		for n := E; n < N; n++ {
			f[polarSubblockIndex(n, N)] = true
		}
	}
	return f
}

// polarMinWeightPosition returns the first index (most reliable first) whose
// generator row has minimum weight. Row i of G_N has weight 2^popcount(i).
func polarMinWeightPosition(mostReliable []int) int {
	best := mostReliable[0]
	bestW := bits.OnesCount(uint(best))
	for _, idx := range mostReliable[1:] {
		if w := bits.OnesCount(uint(idx)); w < bestW {
			best, bestW = idx, w
		}
	}
	return best
}

// ceilLog2 returns the smallest c with 2^c >= x, for x >= 1.
func ceilLog2(x int) int {
	if x <= 1 {
		return 0
	}
	return bits.Len(uint(x - 1))
}

func ceilDiv(x, d int) int {
	if x <= 0 {
		return 0
	}
	return (x + d - 1) / d
}

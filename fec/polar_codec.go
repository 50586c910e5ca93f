package fec

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// PolarCodecConfig describes one end-to-end polar link.
type PolarCodecConfig struct {
	A    int // payload bits before the CRC
	E    int // transmitted bits
	NMax int // 9 for downlink, 10 for uplink

	CRCLen int // 0, 6, 11 or 24
	PadCRC bool
	RNTI   uint16

	Interleave        bool // input bit interleaver (downlink)
	ChannelInterleave bool // triangular channel interleaver (uplink)

	// L selects the decoder: 0 for SC, otherwise the SCL list size.
	L int
	// Clamp bounds rate-recovered LLRs; 0 selects DefaultLLRClamp.
	Clamp float64

	Logger logrus.FieldLogger
}

// PolarCodec chains CRC attachment, encoding and rate matching on transmit
// and the inverse steps on receive. Receive reuses decoder state and must not
// be called concurrently; Transmit may be.
type PolarCodec struct {
	cfg  PolarCodecConfig
	code *PolarCode
	crc  PolarCRC
	scl  *PolarSCLDecoder
	log  logrus.FieldLogger
}

// NewPolarCodec validates cfg and builds the code and decoder.
func NewPolarCodec(cfg PolarCodecConfig) (*PolarCodec, error) {
	if cfg.A <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "payload size A=%d", cfg.A)
	}
	c, err := NewPolarCRC(cfg.CRCLen, cfg.PadCRC, cfg.RNTI)
	if err != nil {
		return nil, err
	}
	K := cfg.A + cfg.CRCLen
	pc := &PolarCodec{cfg: cfg, crc: c, log: cfg.Logger}
	if pc.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		pc.log = l
	}
	if cfg.L > 0 {
		pc.scl, err = NewPolarSCLDecoder(PolarSCLConfig{K: K, E: cfg.E, NMax: cfg.NMax, L: cfg.L, Interleave: cfg.Interleave, CRC: c})
		if err != nil {
			return nil, err
		}
		pc.code = pc.scl.Code()
	} else {
		if pc.code, err = ConstructPolar(K, cfg.E, cfg.NMax); err != nil {
			return nil, err
		}
		if cfg.Interleave {
			if _, err := PolarInterleavePattern(K); err != nil {
				return nil, err
			}
		}
	}
	pc.log = pc.log.WithFields(logrus.Fields{"K": K, "E": cfg.E, "N": pc.code.N, "L": cfg.L})
	pc.log.WithFields(logrus.Fields{
		"mode":  pc.code.Mode.String(),
		"n_pc":  pc.code.NPC,
		"crc":   cfg.CRCLen,
		"il":    cfg.Interleave,
		"ch_il": cfg.ChannelInterleave,
	}).Debug("polar codec configured")
	return pc, nil
}

// Code returns the underlying code structure.
func (pc *PolarCodec) Code() *PolarCode { return pc.code }

// Transmit returns the E rate-matched bits carrying payload.
func (pc *PolarCodec) Transmit(payload []uint8) ([]uint8, error) {
	if len(payload) != pc.cfg.A {
		return nil, errors.Wrapf(ErrInvalidInput, "payload has %d bits, want A=%d", len(payload), pc.cfg.A)
	}
	if err := checkBits(payload); err != nil {
		return nil, err
	}
	c := payload
	if pc.crc != nil {
		c = pc.crc.Attach(payload)
	}
	x, err := pc.code.Encode(c, pc.cfg.Interleave)
	if err != nil {
		return nil, err
	}
	return pc.code.RateMatch(x, pc.cfg.ChannelInterleave)
}

// Receive decodes E channel LLRs and returns the payload with the CRC removed.
// ok is false when the decoder gives up or the CRC does not match.
func (pc *PolarCodec) Receive(llr []float64) ([]uint8, bool, error) {
	d, err := pc.code.RateRecover(llr, pc.cfg.ChannelInterleave, pc.cfg.Clamp)
	if err != nil {
		return nil, false, err
	}
	var c []uint8
	if pc.scl != nil {
		var ok bool
		if c, ok, err = pc.scl.Decode(d); err != nil {
			return nil, false, err
		}
		if !ok {
			pc.log.Debug("list decoding failed")
			return nil, false, nil
		}
	} else if c, err = pc.code.DecodeSC(d, pc.cfg.Interleave); err != nil {
		return nil, false, err
	}
	if pc.crc == nil {
		return c, true, nil
	}
	a, ok := pc.crc.Check(c)
	if !ok {
		pc.log.Debug("CRC mismatch")
		return nil, false, nil
	}
	return a, true, nil
}

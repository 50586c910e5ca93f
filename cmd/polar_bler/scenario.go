package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Point is one code configuration swept over a list of Eb/N0 values.
type Point struct {
	A                 int       `yaml:"a"`
	E                 int       `yaml:"e"`
	NMax              int       `yaml:"n_max"`
	CRC               int       `yaml:"crc"`
	PadCRC            bool      `yaml:"pad_crc"`
	RNTI              uint16    `yaml:"rnti"`
	Interleave        bool      `yaml:"interleave"`
	ChannelInterleave bool      `yaml:"channel_interleave"`
	L                 int       `yaml:"l"`
	SNR               []float64 `yaml:"snr"`
	// Erase is the probability that a received LLR is wiped to 0 on top of the noise.
	Erase             float64   `yaml:"erase"`
}

// Scenario is the YAML file accepted by -config.
type Scenario struct {
	Name      string  `yaml:"name"`
	Seed      int64   `yaml:"seed"`
	Blocks    int     `yaml:"blocks"`
	MaxErrors int     `yaml:"max_errors"`
	Workers   int     `yaml:"workers"`
	Points    []Point `yaml:"points"`
}

func loadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &s, s.validate()
}

func (s *Scenario) validate() error {
	if s.Blocks <= 0 {
		return errors.Errorf("blocks must be positive, got %d", s.Blocks)
	}
	if len(s.Points) == 0 {
		return errors.New("scenario has no points")
	}
	for i := range s.Points {
		p := &s.Points[i]
		if p.NMax == 0 {
			p.NMax = 9
		}
		if p.A <= 0 || p.E <= 0 {
			return errors.Errorf("point %d: a=%d e=%d", i, p.A, p.E)
		}
		if p.Erase < 0 || p.Erase > 1 {
			return errors.Errorf("point %d: erase probability %v", i, p.Erase)
		}
		if len(p.SNR) == 0 {
			return errors.Errorf("point %d: empty snr list", i)
		}
	}
	return nil
}

// parseSNRList parses "0,0.5,1" or a range "0:3:0.5" (start:stop:step, inclusive).
func parseSNRList(v string) ([]float64, error) {
	v = strings.TrimSpace(v)
	if parts := strings.Split(v, ":"); len(parts) == 3 {
		var r [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "snr range %q", v)
			}
			r[i] = f
		}
		if r[2] <= 0 || r[1] < r[0] {
			return nil, errors.Errorf("snr range %q", v)
		}
		var out []float64
		for i := 0; ; i++ {
			x := r[0] + float64(i)*r[2]
			if x > r[1]+1e-9 {
				break
			}
			out = append(out, x)
		}
		return out, nil
	}
	var out []float64
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "snr list %q", v)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("empty snr list %q", v)
	}
	return out, nil
}

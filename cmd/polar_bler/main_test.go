package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/observe-l/nrpolar/internal/results"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
name: dci-sweep
seed: 7
blocks: 50
max_errors: 10
points:
  - a: 40
    e: 108
    crc: 24
    pad_crc: true
    rnti: 4660
    interleave: true
    l: 8
    snr: [1, 2.5]
  - a: 18
    e: 60
    n_max: 10
    channel_interleave: true
    l: 4
    snr: [3]
`

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))
	s, err := loadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "dci-sweep", s.Name)
	assert.Equal(t, 50, s.Blocks)
	require.Len(t, s.Points, 2)
	assert.Equal(t, 9, s.Points[0].NMax, "n_max defaults to the downlink value")
	assert.Equal(t, uint16(0x1234), s.Points[0].RNTI)
	assert.Equal(t, []float64{1, 2.5}, s.Points[0].SNR)
	assert.True(t, s.Points[1].ChannelInterleave)
}

func TestLoadScenarioRejects(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"no-blocks.yaml": "points: [{a: 1, e: 40, snr: [1]}]",
		"no-points.yaml": "blocks: 5",
		"no-snr.yaml":    "blocks: 5\npoints: [{a: 1, e: 40}]",
		"garbage.yaml":   "blocks: [",
		"bad-erase.yaml": "blocks: 5\npoints: [{a: 1, e: 40, snr: [1], erase: 1.5}]",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := loadScenario(path)
		assert.Error(t, err, name)
	}
	_, err := loadScenario(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseSNRList(t *testing.T) {
	got, err := parseSNRList("0:1:0.25")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, got, 1e-12)

	got, err = parseSNRList(" 1, 2 ,3.5")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3.5}, got)

	for _, bad := range []string{"", "a,b", "1:0:0.5", "0:1:0"} {
		_, err := parseSNRList(bad)
		assert.Error(t, err, bad)
	}
}

func TestSimulateAndReport(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := Point{A: 40, E: 256, NMax: 9, CRC: 24, Interleave: true, L: 4, SNR: []float64{6}}
	pt, err := simulate(context.Background(), p, 6, 40, 0, 3, 1, logger)
	require.NoError(t, err)
	assert.Equal(t, 40, pt.Blocks)
	assert.Equal(t, 64, pt.K)
	assert.Equal(t, "repetition", pt.Mode)
	assert.LessOrEqual(t, pt.Errors, 1)
	assert.Zero(t, pt.Undetected)

	run := &runJSON{name: "unit", seed: 1, started: time.Unix(0, 0), points: []results.Point{pt}}
	md := renderMarkdown(run)
	assert.Contains(t, md, "# Polar BLER - unit")
	assert.Contains(t, md, "| 64 | 256 | 256 | 4 | 9 | 24 | repetition | 6.00 | 40 |")

	path := filepath.Join(t.TempDir(), "out", "run.json")
	require.NoError(t, writeJSONReport(path, run))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded struct {
		Name   string `json:"name"`
		Points []struct {
			K      int     `json:"k"`
			Blocks int     `json:"blocks"`
			BLER   float64 `json:"bler"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "unit", decoded.Name)
	require.Len(t, decoded.Points, 1)
	assert.Equal(t, 64, decoded.Points[0].K)
	assert.Equal(t, 40, decoded.Points[0].Blocks)
}

func TestSimulateWithErasures(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := Point{A: 40, E: 256, NMax: 9, CRC: 24, Interleave: true, L: 4, Erase: 0.2}
	pt, err := simulate(context.Background(), p, 6, 30, 0, 2, 3, logger)
	require.NoError(t, err)
	assert.Equal(t, 0.2, pt.Erase)
	assert.Equal(t, 30, pt.Blocks)
	assert.LessOrEqual(t, pt.Errors, 1)

	// nothing survives a channel that erases every bit
	p.Erase = 1
	pt, err = simulate(context.Background(), p, 6, 10, 0, 2, 3, logger)
	require.NoError(t, err)
	assert.Equal(t, 10, pt.Blocks)
	assert.Equal(t, pt.Blocks, pt.Errors)
}

func TestSimulateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Point{A: 20, E: 60, NMax: 9, L: 2, SNR: []float64{1}}
	_, err := simulate(ctx, p, 1, 100, 0, 2, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppendIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables", "index.csv")
	pts := []results.Point{{K: 64, E: 108, N: 128, L: 8, NMax: 9, CRCLen: 24, Mode: "shorten", EbN0dB: 1.5, Blocks: 100, Errors: 5}}
	require.NoError(t, appendIndex(path, pts))
	require.NoError(t, appendIndex(path, pts))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "K,E,L,ebn0_db,N,n_max,crc,mode,blocks,errors,bler\n" +
		"64,108,8,1.50,128,9,24,shorten,100,5,0.05\n" +
		"64,108,8,1.50,128,9,24,shorten,100,5,0.05\n"
	assert.Equal(t, want, string(b))
}

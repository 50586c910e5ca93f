package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/observe-l/nrpolar/internal/results"
)

type pointJSON results.Point

func (p *pointJSON) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("k", p.K)
	enc.IntKey("e", p.E)
	enc.IntKey("n", p.N)
	enc.IntKey("l", p.L)
	enc.IntKey("n_max", p.NMax)
	enc.IntKey("crc_len", p.CRCLen)
	enc.StringKey("mode", p.Mode)
	enc.FloatKey("ebn0_db", p.EbN0dB)
	enc.FloatKey("erase_prob", p.Erase)
	enc.IntKey("blocks", p.Blocks)
	enc.IntKey("errors", p.Errors)
	enc.IntKey("undetected", p.Undetected)
	enc.FloatKey("bler", results.Point(*p).BLER())
	enc.FloatKey("avg_decode_us", p.AvgMicros)
}

func (p *pointJSON) IsNil() bool { return p == nil }

type pointsJSON []results.Point

func (ps pointsJSON) MarshalJSONArray(enc *gojay.Encoder) {
	for i := range ps {
		enc.Object((*pointJSON)(&ps[i]))
	}
}

func (ps pointsJSON) IsNil() bool { return len(ps) == 0 }

type runJSON struct {
	name    string
	seed    int64
	started time.Time
	points  []results.Point
}

func (r *runJSON) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("name", r.name)
	enc.Int64Key("seed", r.seed)
	enc.StringKey("started", r.started.UTC().Format(time.RFC3339))
	enc.ArrayKey("points", pointsJSON(r.points))
}

func (r *runJSON) IsNil() bool { return r == nil }

func writeJSONReport(path string, r *runJSON) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := gojay.NewEncoder(f)
	if err := enc.EncodeObject(r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func renderMarkdown(r *runJSON) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Polar BLER - %s\n\n", r.name)
	fmt.Fprintf(&b, "Seed: %d  \nStarted: %s\n\n", r.seed, r.started.UTC().Format(time.RFC3339))
	b.WriteString("| K | E | N | L | nMax | CRC | mode | Eb/N0 (dB) | blocks | errors | undetected | BLER | avg decode (us) |\n")
	b.WriteString("|---|---|---|---|------|-----|------|------------|--------|--------|------------|------|-----------------|\n")
	for _, p := range r.points {
		fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d | %s | %.2f | %d | %d | %d | %.3e | %.1f |\n",
			p.K, p.E, p.N, p.L, p.NMax, p.CRCLen, p.Mode, p.EbN0dB, p.Blocks, p.Errors, p.Undetected, p.BLER(), p.AvgMicros)
	}
	return b.String()
}

func writeMarkdownReport(path string, r *runJSON) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(renderMarkdown(r)), 0o644)
}

var indexHeader = []string{"K", "E", "L", "ebn0_db", "N", "n_max", "crc", "mode", "blocks", "errors", "bler"}

// appendIndex adds one CSV row per point to the sweep index, writing the
// header when the file is new. cmd/tools/sort_index and summarize_index read it.
func appendIndex(path string, points []results.Point) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		_ = w.Write(indexHeader)
	}
	for _, p := range points {
		_ = w.Write([]string{
			strconv.Itoa(p.K), strconv.Itoa(p.E), strconv.Itoa(p.L),
			strconv.FormatFloat(p.EbN0dB, 'f', 2, 64),
			strconv.Itoa(p.N), strconv.Itoa(p.NMax), strconv.Itoa(p.CRCLen), p.Mode,
			strconv.Itoa(p.Blocks), strconv.Itoa(p.Errors),
			strconv.FormatFloat(p.BLER(), 'g', 6, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type row struct {
	K, E, L int
	ebn0    float64
	bler    float64
}

type codeKey struct{ K, E, L int }

func main() {
	var indexPath, outPath string
	var target float64
	flag.StringVar(&indexPath, "index", "tables/index.csv", "path to tables/index.csv")
	flag.StringVar(&outPath, "out", "docs/reports/summary.md", "output markdown path")
	flag.Float64Var(&target, "target", 1e-2, "target block error rate")
	flag.Parse()

	rows, err := loadRows(indexPath)
	if err != nil {
		fatalf("%v", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fatalf("mkdir %s: %v", filepath.Dir(outPath), err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		fatalf("create %s: %v", outPath, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	writeSummary(w, indexPath, rows, target)
	w.Flush()
	fmt.Printf("wrote %s\n", outPath)
}

func writeSummary(w io.Writer, source string, rows []row, target float64) {
	byCode := map[codeKey][]row{}
	for _, r := range rows {
		k := codeKey{r.K, r.E, r.L}
		byCode[k] = append(byCode[k], r)
	}
	keys := make([]codeKey, 0, len(byCode))
	for k := range byCode {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.K != b.K {
			return a.K < b.K
		}
		if a.E != b.E {
			return a.E < b.E
		}
		return a.L < b.L
	})

	fmt.Fprintln(w, "# Polar BLER sweep summary")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Source: %s. Required Eb/N0 is interpolated in log(BLER) at BLER=%g.\n", source, target)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "| K | E | L | points | required Eb/N0 (dB) |")
	fmt.Fprintln(w, "|---:|---:|---:|---:|---:|")
	for _, k := range keys {
		pts := byCode[k]
		req := "n/a"
		if v, ok := requiredEbN0(pts, target); ok {
			req = fmt.Sprintf("%.2f", v)
		}
		fmt.Fprintf(w, "| %d | %d | %d | %d | %s |\n", k.K, k.E, k.L, len(pts), req)
	}
}

// requiredEbN0 finds the first crossing of target between consecutive SNR
// points. Points with zero errors are treated as 1/10 of the target.
func requiredEbN0(pts []row, target float64) (float64, bool) {
	sort.Slice(pts, func(i, j int) bool { return pts[i].ebn0 < pts[j].ebn0 })
	logb := func(b float64) float64 {
		if b <= 0 {
			b = target / 10
		}
		return math.Log10(b)
	}
	lt := math.Log10(target)
	for i := range pts {
		if pts[i].bler > target {
			continue
		}
		if i == 0 {
			return pts[0].ebn0, true
		}
		a, b := pts[i-1], pts[i]
		ya, yb := logb(a.bler), logb(b.bler)
		if ya == yb {
			return b.ebn0, true
		}
		return a.ebn0 + (lt-ya)*(b.ebn0-a.ebn0)/(yb-ya), true
	}
	return 0, false
}

func loadRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no header in %s", path)
	}
	head := recs[0]
	col := map[string]int{}
	for i, v := range head {
		col[strings.TrimSpace(v)] = i
	}
	var idx [5]int
	for i, name := range []string{"K", "E", "L", "ebn0_db", "bler"} {
		c, ok := col[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header: have %v", name, head)
		}
		idx[i] = c
	}
	var out []row
	for _, rowv := range recs[1:] {
		if len(rowv) < len(head) {
			continue
		}
		K, _ := strconv.Atoi(strings.TrimSpace(rowv[idx[0]]))
		E, _ := strconv.Atoi(strings.TrimSpace(rowv[idx[1]]))
		L, _ := strconv.Atoi(strings.TrimSpace(rowv[idx[2]]))
		ebn0, _ := strconv.ParseFloat(strings.TrimSpace(rowv[idx[3]]), 64)
		bler, _ := strconv.ParseFloat(strings.TrimSpace(rowv[idx[4]]), 64)
		out = append(out, row{K: K, E: E, L: L, ebn0: ebn0, bler: bler})
	}
	return out, nil
}

func fatalf(f string, a ...any) { fmt.Fprintf(os.Stderr, f+"\n", a...); os.Exit(1) }

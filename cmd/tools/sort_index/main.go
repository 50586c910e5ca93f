package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type rec struct {
	K, E, L int
	ebn0    float64
	fields  []string
}

func main() {
	var path string
	flag.StringVar(&path, "path", "tables/index.csv", "path to the polar_bler sweep index")
	flag.Parse()

	n, err := sortIndex(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("sorted %s (%d rows) by K,E,L,ebn0_db\n", path, n)
}

// sortIndex rewrites path with its data rows ordered by K, E, L and Eb/N0.
// Duplicate measurements keep their file order.
func sortIndex(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // allow variable to handle partial lines
	recs, err := r.ReadAll()
	_ = f.Close()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	// skip any leading blank lines
	i0 := 0
	for i0 < len(recs) && (len(recs[i0]) == 0 || (len(recs[i0]) == 1 && strings.TrimSpace(recs[i0][0]) == "")) {
		i0++
	}
	if i0 >= len(recs) {
		return 0, fmt.Errorf("no header in %s", path)
	}
	head := recs[i0]
	col := map[string]int{}
	for i, v := range head {
		col[strings.TrimSpace(v)] = i
	}
	idx := make([]int, 4)
	for i, name := range []string{"K", "E", "L", "ebn0_db"} {
		c, ok := col[name]
		if !ok {
			return 0, fmt.Errorf("missing column %q in header %v", name, head)
		}
		idx[i] = c
	}
	var rows []rec
	for i := i0 + 1; i < len(recs); i++ {
		row := recs[i]
		// drop partial lines
		if len(row) < len(head) {
			continue
		}
		row = row[:len(head)]
		K, _ := strconv.Atoi(strings.TrimSpace(row[idx[0]]))
		E, _ := strconv.Atoi(strings.TrimSpace(row[idx[1]]))
		L, _ := strconv.Atoi(strings.TrimSpace(row[idx[2]]))
		ebn0, _ := strconv.ParseFloat(strings.TrimSpace(row[idx[3]]), 64)
		rows = append(rows, rec{K: K, E: E, L: L, ebn0: ebn0, fields: row})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.K != b.K {
			return a.K < b.K
		}
		if a.E != b.E {
			return a.E < b.E
		}
		if a.L != b.L {
			return a.L < b.L
		}
		return a.ebn0 < b.ebn0
	})

	tmp := filepath.Join(filepath.Dir(path), ".index.csv.tmp")
	out, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", tmp, err)
	}
	w := csv.NewWriter(out)
	_ = w.Write(head)
	for _, rr := range rows {
		_ = w.Write(rr.fields)
	}
	w.Flush()
	_ = out.Close()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("rename %s -> %s: %w", tmp, path, err)
	}
	return len(rows), nil
}

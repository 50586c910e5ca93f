package fec

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Load3GPPTable loads a 3GPP polar reliability table from a text file with two columns: index, rank.
// Returns indices ordered by DESCENDING rank (larger = more reliable). Lines starting with '#' are ignored.
func Load3GPPTable(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open reliability table")
	}
	defer f.Close()
	type row struct {
		idx int
		val int
	}
	rows := make([]row, 0, len(polarReliability))
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		i, err1 := strconv.Atoi(parts[0])
		v, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		rows = append(rows, row{idx: i, val: v})
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "scan reliability table")
	}
	// Larger rank means more reliable, so sort descending by val
	sort.Slice(rows, func(i, j int) bool { return rows[i].val > rows[j].val })
	ordered := make([]int, len(rows))
	for i := range rows {
		ordered[i] = rows[i].idx
	}
	return ordered, nil
}

// Write3GPPTable writes the built-in reliability sequence in the format read by Load3GPPTable.
// Each line holds a bit index followed by its rank (0 = least reliable).
func Write3GPPTable(path string) error {
	var b strings.Builder
	b.WriteString("# TS 38.212 Table 5.3.1.2-1: index rank\n")
	for rank, idx := range polarReliability {
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(rank))
		b.WriteByte('\n')
	}
	return errors.Wrap(os.WriteFile(path, []byte(b.String()), 0o644), "write reliability table")
}

// PolarReliabilityOrder returns the bit indices < N ordered from most to least reliable.
func PolarReliabilityOrder(N int) []int {
	out := make([]int, 0, N)
	for i := len(polarReliability) - 1; i >= 0; i-- {
		if idx := polarReliability[i]; idx < N {
			out = append(out, idx)
		}
	}
	return out
}

// MatchesBuiltinReliability reports whether a descending order loaded by Load3GPPTable
// agrees with the compiled-in sequence.
func MatchesBuiltinReliability(order []int) bool {
	if len(order) != len(polarReliability) {
		return false
	}
	for i, idx := range order {
		if polarReliability[len(polarReliability)-1-i] != idx {
			return false
		}
	}
	return true
}

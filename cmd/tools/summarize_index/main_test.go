package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredEbN0(t *testing.T) {
	pts := []row{{ebn0: 2, bler: 1e-3}, {ebn0: 0, bler: 1e-1}, {ebn0: 1, bler: 1e-1}}
	v, ok := requiredEbN0(pts, 1e-2)
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-9)

	_, ok = requiredEbN0([]row{{ebn0: 0, bler: 0.5}}, 1e-2)
	assert.False(t, ok)

	v, ok = requiredEbN0([]row{{ebn0: 3, bler: 0}}, 1e-2)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestSummaryFromIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.csv")
	in := "K,E,L,ebn0_db,N,n_max,crc,mode,blocks,errors,bler\n" +
		"64,108,8,1.00,128,9,24,shorten,100,10,0.1\n" +
		"64,108,8,2.00,128,9,24,shorten,1000,1,0.001\n" +
		"20,60,4,1.00,64,10,0,puncture,100,50,0.5\n"
	require.NoError(t, os.WriteFile(path, []byte(in), 0o644))
	rows, err := loadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var b strings.Builder
	writeSummary(&b, path, rows, 1e-2)
	out := b.String()
	assert.Contains(t, out, "| 20 | 60 | 4 | 1 | n/a |")
	assert.Contains(t, out, "| 64 | 108 | 8 | 2 | 1.50 |")
	assert.Less(t, strings.Index(out, "| 20 |"), strings.Index(out, "| 64 |"))
}

package results

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	logger, _ := test.NewNullLogger()
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "bler.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveAndQueryRun(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	run := &Run{Name: "dci", Seed: 1, Points: []Point{
		{K: 64, E: 108, N: 128, L: 8, NMax: 9, CRCLen: 24, Mode: "shorten", EbN0dB: 3, Blocks: 1000, Errors: 12},
		{K: 64, E: 108, N: 128, L: 8, NMax: 9, CRCLen: 24, Mode: "shorten", EbN0dB: 1, Blocks: 1000, Errors: 250},
		{K: 64, E: 108, N: 128, L: 1, NMax: 9, CRCLen: 24, Mode: "shorten", EbN0dB: 1, Blocks: 1000, Errors: 400},
	}}
	require.NoError(t, repo.SaveRun(run))
	assert.NotZero(t, run.ID)

	pts, err := repo.PointsFor(64, 108, 8)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 1.0, pts[0].EbN0dB)
	assert.InDelta(t, 0.25, pts[0].BLER(), 1e-12)
	assert.Equal(t, run.ID, pts[1].RunID)

	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	latest, err := repo.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, "dci", latest.Name)
	assert.Len(t, latest.Points, 3)
}

func TestSaveRunRejectsInvalidPoints(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	assert.Error(t, repo.SaveRun(nil))
	err := repo.SaveRun(&Run{Name: "bad", Points: []Point{{K: 10, E: 5, Blocks: 1}}})
	assert.Error(t, err)
	n, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPointBLER(t *testing.T) {
	assert.Zero(t, Point{}.BLER())
	p := Point{K: 20, E: 60, L: 4, EbN0dB: 2, Blocks: 200, Errors: 3}
	assert.InDelta(t, 0.015, p.BLER(), 1e-12)
	assert.Contains(t, p.String(), "K=20 E=60 L=4")
}

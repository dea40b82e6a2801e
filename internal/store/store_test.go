package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func appendN(t *testing.T, repo EventRepo, n int, op string) {
	t.Helper()
	for i := 0; i < n; i++ {
		p := float64(i) / 10
		err := repo.AppendAnalysis(context.Background(), AnalysisEventData{
			RequestID:        fmt.Sprintf("req-%d", i),
			Operation:        op,
			Source:           "api",
			Success:          true,
			LatencyMicros:    int64(100 + i),
			Input:            `{"initial_probability":0.3}`,
			Output:           `{}`,
			FinalProbability: &p,
		})
		require.NoError(t, err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got), "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_MigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	appendN(t, s.EventRepo(), 1, "posterior")
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err, "reopen runs the migration against existing tables")
	t.Cleanup(func() { s.Close() })

	got, err := s.EventRepo().QueryAnalyses(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	for _, idx := range []string{"analysisevent_operation", "analysisevent_timestamp_ns"} {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`, idx).Scan(&name)
		assert.NoError(t, err, "index %s", idx)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		require.NoError(t, err)
		if i > 0 {
			assert.Equal(t, prev+1, seq, "sequence must increase by one")
		}
		prev = seq
	}
}

func TestAppendAndGetAnalysis(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, repo.AppendAnalysis(ctx, AnalysisEventData{
		RequestID:     "abc",
		Operation:     "posterior",
		Source:        "cli",
		Success:       false,
		ErrorMessage:  "invalid prior probability 2",
		LatencyMicros: 42,
		Input:         `{"prior_probability":2}`,
	}))

	events, err := repo.QueryAnalyses(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.GetAnalysis(ctx, events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.RequestID)
	assert.Equal(t, "posterior", got.Operation)
	assert.Equal(t, "cli", got.Source)
	assert.False(t, got.Success)
	assert.Equal(t, "invalid prior probability 2", got.ErrorMessage)
	assert.Equal(t, int64(42), got.LatencyMicros)
	assert.Nil(t, got.FinalProbability)
	assert.True(t, got.Timestamp.After(before))
}

func TestGetAnalysis_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.EventRepo().GetAnalysis(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryAnalyses_Filters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendN(t, repo, 3, "sequential")
	appendN(t, repo, 2, "recommend")

	all, err := repo.QueryAnalyses(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Greater(t, all[0].Sequence, all[4].Sequence, "newest first")
	require.NotNil(t, all[4].FinalProbability)
	assert.InDelta(t, 0.0, *all[4].FinalProbability, 1e-12)

	seq, err := repo.QueryAnalyses(ctx, QueryOpts{Operation: "sequential"})
	require.NoError(t, err)
	assert.Len(t, seq, 3)

	limited, err := repo.QueryAnalyses(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	after, err := repo.QueryAnalyses(ctx, QueryOpts{After: all[2].Sequence})
	require.NoError(t, err)
	assert.Len(t, after, 2)

	future, err := repo.QueryAnalyses(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendN(t, repo, 5, "posterior")

	n, err := repo.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	left, err := repo.QueryAnalyses(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "req-4", left[0].RequestID)

	n, err = repo.Prune(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n, "fewer events than keep")

	n, err = repo.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDefaultDBPath_Env(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "usage.db")
	t.Setenv("BAYESDX_DB", p)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vendorscore/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPageCacheRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, ok, err := s.GetPage(ctx, "https://example.com")
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	require.NoError(t, s.SavePage(ctx, "https://example.com", "<html>v1</html>"))

	content, ok, err := s.GetPage(ctx, "https://example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<html>v1</html>", content)
}

func TestPageCacheOverwrites(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePage(ctx, "https://example.com", "v1"))
	require.NoError(t, s.SavePage(ctx, "https://example.com", "v2"))

	content, ok, err := s.GetPage(ctx, "https://example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", content, "last write wins")
}

func TestPageCacheKeyIsExact(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePage(ctx, "https://example.com/About", "cased"))

	_, ok, err := s.GetPage(ctx, "https://example.com/about")
	require.NoError(t, err)
	assert.False(t, ok, "keys are case-sensitive, no normalization")
}

func TestRunLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.StartRun(ctx, "run-1", "Acme", "https://acme.example"))

	run, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", run.CompanyName)
	assert.Nil(t, run.FinishedAt, "unfinished run has no completion time")

	sc := &types.Scorecard{
		OverallScore: 72.5,
		Coverage:     0.8,
		Confidence:   0.6,
		Flags:        []string{"No English support."},
	}
	require.NoError(t, s.FinishRun(ctx, "run-1", sc))

	run, err = s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, 72.5, run.OverallScore)
	assert.Equal(t, 0.8, run.Coverage)
	assert.Equal(t, 0.6, run.Confidence)
	assert.Equal(t, []string{"No English support."}, run.Flags)
}

func TestStartRunIdempotentByID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.StartRun(ctx, "run-1", "Acme", ""))
	require.NoError(t, s.StartRun(ctx, "run-1", "Acme Renamed", "https://acme.example"))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1, "same id replaces, not appends")
	assert.Equal(t, "Acme Renamed", runs[0].CompanyName)
}

func TestFinishRunUnknownID(t *testing.T) {
	s := testStore(t)
	err := s.FinishRun(context.Background(), "ghost", &types.Scorecard{})
	assert.Error(t, err)
}

func TestSaveCriteriaReplacesByRunID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.StartRun(ctx, "run-1", "Acme", ""))

	first := []types.CriterionScore{
		{CriterionID: "identity_contact_info", Name: "Contact information presence", Category: "Identity", Score: 4, MaxScore: 5, Weight: 1},
		{CriterionID: "tech_cloud", Name: "Cloud infrastructure experience", Category: "Technical", Score: 3, MaxScore: 5, Weight: 2},
	}
	require.NoError(t, s.SaveCriteria(ctx, "run-1", first))
	require.NoError(t, s.SaveCriteria(ctx, "run-1", first[:1]))

	got, err := s.RunCriteria(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1, "re-saving replaces previous rows for the run")
	assert.Equal(t, "identity_contact_info", got[0].CriterionID)
	assert.Equal(t, 4.0, got[0].Score)
}

func TestSaveCriteriaPreservesOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	criteria := []types.CriterionScore{
		{CriterionID: "b", MaxScore: 5, Weight: 1},
		{CriterionID: "a", MaxScore: 5, Weight: 1},
		{CriterionID: "c", MaxScore: 5, Weight: 1},
	}
	require.NoError(t, s.SaveCriteria(ctx, "run-1", criteria))

	got, err := s.RunCriteria(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range criteria {
		assert.Equal(t, c.CriterionID, got[i].CriterionID)
	}
}

func TestSaveFeatures(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	features := []types.Feature{
		{Name: "headcount", Value: 250, Confidence: 0.7},
		{Name: "founded", Value: "2009", Confidence: 0.9},
	}
	require.NoError(t, s.SaveFeatures(ctx, "run-1", features))
}

package archive

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftwatch/internal/matches"
)

func openForTest(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func summary(matchID any, creation int64, kda string) matches.GameSummary {
	return matches.GameSummary{
		MatchID:      matchID,
		GameCreation: creation,
		KDA:          kda,
		GameMode:     "CLASSIC",
	}
}

func TestArchiveSummariesAndRecent(t *testing.T) {
	store := openForTest(t)
	ctx := context.Background()

	stored, err := store.ArchiveSummaries(ctx, "p1", []matches.GameSummary{
		summary("NA_1", 1000, "1/0/0"),
		summary("NA_2", 3000, "2/0/0"),
		summary("NA_3", 2000, "3/0/0"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stored)

	recent, err := store.Recent(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "NA_2", recent[0].MatchID, "newest first")
	assert.Equal(t, "NA_3", recent[1].MatchID)
}

func TestArchiveSummariesUpserts(t *testing.T) {
	store := openForTest(t)
	ctx := context.Background()

	_, err := store.ArchiveSummaries(ctx, "p1", []matches.GameSummary{summary("NA_1", 1000, "1/0/0")})
	require.NoError(t, err)
	_, err = store.ArchiveSummaries(ctx, "p1", []matches.GameSummary{summary("NA_1", 1000, "9/9/9")})
	require.NoError(t, err)

	count, err := store.Count(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	recent, err := store.Recent(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "9/9/9", recent[0].KDA, "second write wins")
}

func TestArchiveSummariesSkipsMissingMatchIDs(t *testing.T) {
	store := openForTest(t)
	ctx := context.Background()

	stored, err := store.ArchiveSummaries(ctx, "p1", []matches.GameSummary{
		summary(nil, 1000, "1/0/0"),
		summary("", 1000, "2/0/0"),
		summary(float64(5123456789), 1000, "3/0/0"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	recent, err := store.Recent(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "3/0/0", recent[0].KDA)
}

func TestArchiveIsolatesPlayers(t *testing.T) {
	store := openForTest(t)
	ctx := context.Background()

	_, err := store.ArchiveSummaries(ctx, "p1", []matches.GameSummary{summary("NA_1", 1000, "1/0/0")})
	require.NoError(t, err)
	_, err = store.ArchiveSummaries(ctx, "p2", []matches.GameSummary{summary("NA_1", 1000, "2/0/0")})
	require.NoError(t, err)

	count, err := store.Count(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	recent, err := store.Recent(ctx, "p2", 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2/0/0", recent[0].KDA)
}

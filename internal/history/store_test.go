// # internal/history/store_test.go
package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndRecentSnapshots(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := Snapshot{
			RunID:              string(rune('a' + i)),
			ProjectKey:         "web",
			Timestamp:          base.Add(time.Duration(i) * time.Hour),
			FileCount:          10 + i,
			AnalyzedCount:      9 + i,
			FailedCount:        1,
			FunctionCount:      40 + i,
			IssueCount:         i,
			AvgQuality:         80 + float64(i),
			AvgComplexity:      4.5,
			AvgMaintainability: 70,
			GraphNodes:         20,
			GraphEdges:         30,
			Duration:           250 * time.Millisecond,
		}
		require.NoError(t, store.SaveSnapshot(snap))
	}

	snapshots, err := store.RecentSnapshots("web", 2)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	// Newest first.
	require.Equal(t, "c", snapshots[0].RunID)
	require.Equal(t, "b", snapshots[1].RunID)
	require.Equal(t, 12, snapshots[0].FileCount)
	require.Equal(t, 82.0, snapshots[0].AvgQuality)
	require.Equal(t, 250*time.Millisecond, snapshots[0].Duration)
	require.True(t, snapshots[0].Timestamp.Equal(base.Add(2*time.Hour)))
}

func TestRecentSnapshotsIsolatesProjects(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveSnapshot(Snapshot{RunID: "x", ProjectKey: "alpha"}))
	require.NoError(t, store.SaveSnapshot(Snapshot{RunID: "y", ProjectKey: "beta"}))

	snapshots, err := store.RecentSnapshots("alpha", 10)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.Equal(t, "x", snapshots[0].RunID)
}

func TestSaveSnapshotFillsDefaults(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveSnapshot(Snapshot{}))

	snapshots, err := store.RecentSnapshots("default", 1)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.NotEmpty(t, snapshots[0].RunID)
	require.False(t, snapshots[0].Timestamp.IsZero())
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(Snapshot{RunID: "first"}))
	require.NoError(t, store.Close())

	// Reopening replays no migrations and keeps existing rows.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	snapshots, err := store.RecentSnapshots("default", 10)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
}

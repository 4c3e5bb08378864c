package tune

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewTrialStore(t.TempDir(), "blobs")

	first := NewTrial(map[string]any{"units": 64, "activation": "relu"})
	first.RecordEpoch(0, map[string]float64{"val_loss": 0.4})
	first.Complete(0.4)
	require.NoError(t, store.Save(first))

	second := NewTrial(map[string]any{"units": 128})
	second.StartedAt = first.StartedAt.Add(time.Second)
	second.Fail(errors.New("diverged"))
	require.NoError(t, store.Save(second))

	trials, err := store.Load()
	require.NoError(t, err)
	require.Len(t, trials, 2)

	// Ordered by start time.
	assert.Equal(t, first.ID, trials[0].ID)
	assert.Equal(t, second.ID, trials[1].ID)

	assert.Equal(t, TrialCompleted, trials[0].Status)
	assert.Equal(t, 0.4, trials[0].Score)
	require.Len(t, trials[0].History, 1)
	assert.Equal(t, 0.4, trials[0].History[0].Metrics["val_loss"])

	// JSON round-trips ints as float64.
	assert.Equal(t, float64(64), trials[0].Values["units"])

	assert.Equal(t, TrialFailed, trials[1].Status)
	assert.Equal(t, "diverged", trials[1].Error)
}

func TestStoreIndex(t *testing.T) {
	store := NewTrialStore(t.TempDir(), "blobs")

	for i := 0; i < 3; i++ {
		trial := NewTrial(nil)
		trial.Complete(float64(i))
		require.NoError(t, store.Save(trial))
	}

	entries, err := store.Index()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 0.0, entries[0].Score)
	assert.Equal(t, 2.0, entries[2].Score)
	for _, e := range entries {
		assert.Equal(t, TrialCompleted, e.Status)
		assert.NotEmpty(t, e.ID)
	}
}

func TestStoreResaveUpdatesTrial(t *testing.T) {
	store := NewTrialStore(t.TempDir(), "blobs")

	trial := NewTrial(nil)
	require.NoError(t, store.Save(trial))
	trial.Complete(0.25)
	require.NoError(t, store.Save(trial))

	trials, err := store.Load()
	require.NoError(t, err)
	require.Len(t, trials, 1, "re-saving must overwrite, not duplicate")
	assert.Equal(t, TrialCompleted, trials[0].Status)
	assert.Equal(t, 0.25, trials[0].Score)
}

func TestStoreLoadEmptyProject(t *testing.T) {
	store := NewTrialStore(t.TempDir(), "never-ran")
	trials, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, trials)

	entries, err := store.Index()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreTrialDirLayout(t *testing.T) {
	root := t.TempDir()
	store := NewTrialStore(root, "blobs")

	dir, err := store.TrialDir("abc-123")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "blobs", "trials", "abc-123"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// A trial directory without trial.json (crashed trial) is skipped.
	trials, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, trials)
}

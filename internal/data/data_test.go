package data_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ab-obi/tf-models/internal/backend/cpu"
	"github.com/ab-obi/tf-models/internal/data"
)

func TestNewDatasetValidation(t *testing.T) {
	_, err := data.NewDataset([]float32{1, 2, 3}, []int32{0}, 2)
	assert.Error(t, err, "feature count not a multiple of numFeatures")

	_, err = data.NewDataset([]float32{1, 2, 3, 4}, []int32{0}, 2)
	assert.Error(t, err, "label count mismatch")

	_, err = data.NewDataset([]float32{1, 2}, []int32{0}, 0)
	assert.Error(t, err, "non-positive numFeatures")

	d, err := data.NewDataset([]float32{1, 2, 3, 4}, []int32{0, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 2, d.NumFeatures())
}

func TestSample(t *testing.T) {
	d, err := data.NewDataset([]float32{1, 2, 3, 4, 5, 6}, []int32{0, 1, 2}, 2)
	require.NoError(t, err)

	row, label := d.Sample(1)
	assert.Equal(t, []float32{3, 4}, row)
	assert.Equal(t, int32(1), label)
}

func TestSplitSizes(t *testing.T) {
	features := make([]float32, 100)
	labels := make([]int32, 100)
	d, err := data.NewDataset(features, labels, 1)
	require.NoError(t, err)

	train, val, err := d.Split(0.2)
	require.NoError(t, err)
	assert.Equal(t, 80, train.Len())
	assert.Equal(t, 20, val.Len())
}

func TestSplitRejectsEmptySides(t *testing.T) {
	d, err := data.NewDataset([]float32{1, 2}, []int32{0, 1}, 1)
	require.NoError(t, err)

	_, _, err = d.Split(0.0)
	assert.Error(t, err)
	_, _, err = d.Split(1.0)
	assert.Error(t, err)

	// 0.2 of 2 samples rounds down to an empty validation set.
	_, _, err = d.Split(0.2)
	assert.Error(t, err)
}

func TestShufflePreservesPairs(t *testing.T) {
	// Encode the label into the feature so pairing is checkable.
	n := 50
	features := make([]float32, n)
	labels := make([]int32, n)
	for i := 0; i < n; i++ {
		features[i] = float32(i)
		labels[i] = int32(i)
	}
	d, err := data.NewDataset(features, labels, 1)
	require.NoError(t, err)

	shuffled := d.Shuffle(rand.New(rand.NewSource(13)))
	require.Equal(t, n, shuffled.Len())

	seen := make(map[int32]bool)
	moved := false
	for i := 0; i < n; i++ {
		row, label := shuffled.Sample(i)
		assert.Equal(t, float32(label), row[0], "feature/label pair broken at %d", i)
		seen[label] = true
		if int32(i) != label {
			moved = true
		}
	}
	assert.Len(t, seen, n, "shuffle must be a permutation")
	assert.True(t, moved, "shuffle left everything in place")

	// Receiver is unchanged.
	row, _ := d.Sample(0)
	assert.Equal(t, float32(0), row[0])
}

func TestBatchesCoverDataset(t *testing.T) {
	backend := cpu.NewSequential()
	features := make([]float32, 10*3)
	labels := make([]int32, 10)
	for i := range labels {
		labels[i] = int32(i)
	}
	d, err := data.NewDataset(features, labels, 3)
	require.NoError(t, err)

	batches := data.Batches(d, 4, nil, backend)
	require.Len(t, batches, 3)
	assert.Equal(t, 4, batches[0].Size())
	assert.Equal(t, 4, batches[1].Size())
	assert.Equal(t, 2, batches[2].Size(), "final batch holds the remainder")

	// Unshuffled batches keep dataset order.
	assert.Equal(t, []int32{0, 1, 2, 3}, batches[0].Labels.Data())
	assert.True(t, batches[0].Features.Shape().Equal([]int{4, 3}))
}

func TestBatchesShuffled(t *testing.T) {
	backend := cpu.NewSequential()
	n := 32
	features := make([]float32, n)
	labels := make([]int32, n)
	for i := 0; i < n; i++ {
		labels[i] = int32(i)
	}
	d, err := data.NewDataset(features, labels, 1)
	require.NoError(t, err)

	batches := data.Batches(d, 8, rand.New(rand.NewSource(7)), backend)
	require.Len(t, batches, 4)

	seen := make(map[int32]bool)
	for _, b := range batches {
		for _, label := range b.Labels.Data() {
			seen[label] = true
		}
	}
	assert.Len(t, seen, n, "shuffled batches must still cover every sample")
}

func TestBlobs(t *testing.T) {
	cfg := data.BlobsConfig{
		Samples:     120,
		NumFeatures: 2,
		NumClasses:  3,
		Spread:      0.5,
	}
	d, err := data.Blobs(cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	require.Equal(t, 120, d.Len())
	require.Equal(t, 2, d.NumFeatures())

	// Every class appears, and appears in every contiguous slice large
	// enough to hold one full class cycle (so tail splits are usable).
	counts := make(map[int32]int)
	for i := 0; i < d.Len(); i++ {
		_, label := d.Sample(i)
		require.GreaterOrEqual(t, label, int32(0))
		require.Less(t, label, int32(3))
		counts[label]++
	}
	assert.Len(t, counts, 3)
	for class, count := range counts {
		assert.Equal(t, 40, count, "class %d", class)
	}

	tailSeen := make(map[int32]bool)
	for i := d.Len() - 6; i < d.Len(); i++ {
		_, label := d.Sample(i)
		tailSeen[label] = true
	}
	assert.Len(t, tailSeen, 3, "tail slice must contain every class")
}

func TestBlobsValidation(t *testing.T) {
	_, err := data.Blobs(data.BlobsConfig{Samples: 0, NumFeatures: 2, NumClasses: 2}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	_, err = data.Blobs(data.BlobsConfig{Samples: 10, NumFeatures: 0, NumClasses: 2}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
	_, err = data.Blobs(data.BlobsConfig{Samples: 10, NumFeatures: 2, NumClasses: 0}, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

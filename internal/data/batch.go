package data

import (
	"math/rand"

	"github.com/ab-obi/tf-models/internal/tensor"
)

// Batch is one mini-batch of a dataset, materialized as tensors.
type Batch[B tensor.Backend] struct {
	Features *tensor.Tensor[float32, B] // [batch, numFeatures]
	Labels   *tensor.Tensor[int32, B]   // [batch]
}

// Size returns the number of samples in the batch.
func (b *Batch[B]) Size() int {
	return b.Labels.NumElements()
}

// Batches cuts the dataset into consecutive mini-batches of at most
// batchSize samples. The final batch may be smaller. Pass a non-nil rng
// to shuffle sample order first, which training epochs should do.
func Batches[B tensor.Backend](d *Dataset, batchSize int, rng *rand.Rand, backend B) []*Batch[B] {
	if batchSize <= 0 {
		panic("batch size must be positive")
	}

	src := d
	if rng != nil {
		src = d.Shuffle(rng)
	}

	n := src.Len()
	batches := make([]*Batch[B], 0, (n+batchSize-1)/batchSize)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		batches = append(batches, materialize(src, start, end, backend))
	}
	return batches
}

func materialize[B tensor.Backend](d *Dataset, start, end int, backend B) *Batch[B] {
	rows := end - start

	features, err := tensor.FromSlice(
		d.features[start*d.numFeatures:end*d.numFeatures],
		tensor.Shape{rows, d.numFeatures},
		backend,
	)
	if err != nil {
		panic(err) // offsets are derived from the dataset, cannot mismatch
	}

	labels, err := tensor.FromSlice(d.labels[start:end], tensor.Shape{rows}, backend)
	if err != nil {
		panic(err)
	}

	return &Batch[B]{Features: features, Labels: labels}
}

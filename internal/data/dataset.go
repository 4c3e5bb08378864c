// Package data provides in-memory datasets, train/validation splitting
// and mini-batch iteration for supervised classification.
//
// A Dataset holds features as a flat row-major [samples, features] slice
// with one int32 class label per row. Batches materialize tensors on a
// backend only when requested, so the same dataset can feed many trials
// without copying.
package data

import (
	"fmt"
	"math/rand"
)

// Dataset is an in-memory labeled dataset.
type Dataset struct {
	features    []float32 // row-major [samples, numFeatures]
	labels      []int32   // [samples]
	numFeatures int
}

// NewDataset creates a dataset from row-major features and class labels.
func NewDataset(features []float32, labels []int32, numFeatures int) (*Dataset, error) {
	if numFeatures <= 0 {
		return nil, fmt.Errorf("numFeatures must be positive, got %d", numFeatures)
	}
	if len(features)%numFeatures != 0 {
		return nil, fmt.Errorf("feature count %d is not a multiple of numFeatures %d", len(features), numFeatures)
	}
	if len(features)/numFeatures != len(labels) {
		return nil, fmt.Errorf("features describe %d samples but got %d labels", len(features)/numFeatures, len(labels))
	}
	return &Dataset{features: features, labels: labels, numFeatures: numFeatures}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.labels)
}

// NumFeatures returns the feature dimension.
func (d *Dataset) NumFeatures() int {
	return d.numFeatures
}

// Sample returns the feature row and label at index i.
func (d *Dataset) Sample(i int) ([]float32, int32) {
	start := i * d.numFeatures
	return d.features[start : start+d.numFeatures], d.labels[i]
}

// Shuffle returns a new dataset with samples in random order. The
// receiver is unchanged.
func (d *Dataset) Shuffle(rng *rand.Rand) *Dataset {
	perm := rng.Perm(d.Len())
	return d.reorder(perm)
}

// Split partitions the dataset into train and validation sets. fraction
// is the share of samples going to validation, taken from the end.
func (d *Dataset) Split(fraction float64) (train, val *Dataset, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("validation fraction must be in (0, 1), got %g", fraction)
	}

	valSize := int(float64(d.Len()) * fraction)
	if valSize == 0 || valSize == d.Len() {
		return nil, nil, fmt.Errorf("fraction %g leaves an empty split for %d samples", fraction, d.Len())
	}

	cut := d.Len() - valSize
	train = &Dataset{
		features:    d.features[:cut*d.numFeatures],
		labels:      d.labels[:cut],
		numFeatures: d.numFeatures,
	}
	val = &Dataset{
		features:    d.features[cut*d.numFeatures:],
		labels:      d.labels[cut:],
		numFeatures: d.numFeatures,
	}
	return train, val, nil
}

func (d *Dataset) reorder(perm []int) *Dataset {
	features := make([]float32, len(d.features))
	labels := make([]int32, len(d.labels))
	for dst, src := range perm {
		copy(features[dst*d.numFeatures:(dst+1)*d.numFeatures], d.features[src*d.numFeatures:(src+1)*d.numFeatures])
		labels[dst] = d.labels[src]
	}
	return &Dataset{features: features, labels: labels, numFeatures: d.numFeatures}
}

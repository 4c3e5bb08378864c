// Copyright 2025 tf-models Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides the public API for datasets, batching and
// synthetic data generation.
package data

import (
	"math/rand"

	"github.com/ab-obi/tf-models/internal/data"
	"github.com/ab-obi/tf-models/internal/tensor"
)

// Dataset is an in-memory labeled dataset.
type Dataset = data.Dataset

// NewDataset creates a dataset from row-major features and labels.
func NewDataset(features []float32, labels []int32, numFeatures int) (*Dataset, error) {
	return data.NewDataset(features, labels, numFeatures)
}

// Batch is one mini-batch materialized as tensors.
type Batch[B tensor.Backend] = data.Batch[B]

// Batches cuts a dataset into mini-batches, shuffling first when rng is
// non-nil.
func Batches[B tensor.Backend](d *Dataset, batchSize int, rng *rand.Rand, backend B) []*Batch[B] {
	return data.Batches(d, batchSize, rng, backend)
}

// BlobsConfig configures the synthetic Gaussian blobs generator.
type BlobsConfig = data.BlobsConfig

// Blobs generates an isotropic Gaussian blobs classification dataset.
func Blobs(cfg BlobsConfig, rng *rand.Rand) (*Dataset, error) {
	return data.Blobs(cfg, rng)
}

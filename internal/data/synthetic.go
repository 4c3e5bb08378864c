package data

import (
	"fmt"
	"math/rand"
)

// BlobsConfig configures the synthetic Gaussian blobs generator.
type BlobsConfig struct {
	Samples     int     // total number of samples
	NumFeatures int     // feature dimension
	NumClasses  int     // number of blob centers
	Spread      float32 // per-feature standard deviation around a center
	CenterBox   float32 // centers are drawn uniformly from [-CenterBox, CenterBox]
}

// Blobs generates an isotropic Gaussian blobs classification dataset,
// one cluster per class. Samples are interleaved across classes so a
// tail split still sees every class.
func Blobs(cfg BlobsConfig, rng *rand.Rand) (*Dataset, error) {
	if cfg.Samples <= 0 || cfg.NumFeatures <= 0 || cfg.NumClasses <= 0 {
		return nil, fmt.Errorf("samples, features and classes must be positive: %+v", cfg)
	}
	if cfg.Spread <= 0 {
		cfg.Spread = 1.0
	}
	if cfg.CenterBox <= 0 {
		cfg.CenterBox = 10.0
	}

	centers := make([]float32, cfg.NumClasses*cfg.NumFeatures)
	for i := range centers {
		centers[i] = (rng.Float32()*2 - 1) * cfg.CenterBox
	}

	features := make([]float32, cfg.Samples*cfg.NumFeatures)
	labels := make([]int32, cfg.Samples)
	for i := 0; i < cfg.Samples; i++ {
		class := i % cfg.NumClasses
		labels[i] = int32(class)
		for j := 0; j < cfg.NumFeatures; j++ {
			center := centers[class*cfg.NumFeatures+j]
			features[i*cfg.NumFeatures+j] = center + float32(rng.NormFloat64())*cfg.Spread
		}
	}

	return NewDataset(features, labels, cfg.NumFeatures)
}

package tune

import (
	"fmt"
	"math/rand"

	"github.com/ab-obi/tf-models/internal/autodiff"
	"github.com/ab-obi/tf-models/internal/nn"
)

// DenseBuilderConfig configures the stock dense classifier builder.
type DenseBuilderConfig struct {
	NumFeatures int
	NumClasses  int
	// Seed drives weight initialization. Every trial initializes from
	// the same seed, so score differences come from the sampled
	// hyperparameters rather than init luck.
	Seed int64
}

// DenseBuilder returns a Builder producing a fully connected classifier
// whose depth, width, activation and dropout are hyperparameters:
//
//	num_layers   Int     1..3
//	units        Int     32..256 step 32 (shared across hidden layers)
//	activation   Choice  relu | sigmoid | tanh
//	dropout      Boolean
//	dropout_rate Float   0.1..0.5 step 0.1 (only read when dropout is on)
func DenseBuilder[B autodiff.BackwardCapable](cfg DenseBuilderConfig) Builder[B] {
	return func(hp *HyperParameters, backend B) (nn.Module[B], error) {
		numLayers := hp.Int("num_layers", 1, 3, 1)
		units := hp.Int("units", 32, 256, 32)
		activation := hp.Choice("activation", []string{"relu", "sigmoid", "tanh"})
		useDropout := hp.Boolean("dropout", false)

		rng := rand.New(rand.NewSource(cfg.Seed))
		model := nn.NewSequential[B]()

		in := cfg.NumFeatures
		for i := 0; i < numLayers; i++ {
			model.Add(nn.NewLinear(in, units, rng, backend))

			act, ok := nn.ActivationByName[B](activation)
			if !ok {
				return nil, fmt.Errorf("unknown activation %q", activation)
			}
			model.Add(act)

			if useDropout {
				rate := hp.FloatStep("dropout_rate", 0.1, 0.5, 0.1)
				model.Add(nn.NewDropout[B](float32(rate), rng))
			}
			in = units
		}
		model.Add(nn.NewLinear(in, cfg.NumClasses, rng, backend))

		return model, nil
	}
}

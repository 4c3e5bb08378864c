package tune

import (
	"math"
	"math/rand"
)

// maxCollisions bounds how many times random search re-samples after
// hitting an already-tried value set before declaring exhaustion.
const maxCollisions = 100

// RandomSearch samples value sets uniformly from the declared space.
// It is seeded, so a search is reproducible, and it de-duplicates
// against everything it already suggested.
type RandomSearch struct {
	rng   *rand.Rand
	tried map[string]bool
}

// NewRandomSearch creates a random search oracle with the given seed.
func NewRandomSearch(seed int64) *RandomSearch {
	return &RandomSearch{
		rng:   rand.New(rand.NewSource(seed)),
		tried: make(map[string]bool),
	}
}

// Ask samples an untried value set, retrying on collisions.
func (o *RandomSearch) Ask(specs []*ParamSpec) (map[string]any, error) {
	for attempt := 0; attempt < maxCollisions; attempt++ {
		values := make(map[string]any, len(specs))
		for _, spec := range specs {
			values[spec.Name] = o.sample(spec)
		}

		key := valuesKey(values)
		if !o.tried[key] {
			o.tried[key] = true
			return values, nil
		}
	}
	return nil, ErrExhausted
}

func (o *RandomSearch) sample(spec *ParamSpec) any {
	switch spec.Kind {
	case KindInt:
		return int(spec.Min) + o.rng.Intn(spec.numSteps())*int(spec.Step)
	case KindFloat:
		if spec.Step > 0 {
			return spec.Min + float64(o.rng.Intn(spec.numSteps()))*spec.Step
		}
		if spec.Sampling == SamplingLog {
			lo, hi := math.Log(spec.Min), math.Log(spec.Max)
			return math.Exp(lo + o.rng.Float64()*(hi-lo))
		}
		return spec.Min + o.rng.Float64()*(spec.Max-spec.Min)
	case KindChoice:
		return spec.Choices[o.rng.Intn(len(spec.Choices))]
	case KindBoolean:
		return o.rng.Intn(2) == 1
	case KindFixed:
		return spec.Default
	default:
		panic("unknown hyperparameter kind: " + string(spec.Kind))
	}
}

package tune

import "fmt"

// GridSearch walks the cartesian product of the declared space, visiting
// each point exactly once. Float parameters must be declared with a step
// (FloatStep) to be enumerable.
//
// If the space grows between Asks, the walk restarts over the new
// dimensions; already-suggested points are skipped, so no point is
// handed out twice.
type GridSearch struct {
	cursor    int
	signature string
	tried     map[string]bool
}

// NewGridSearch creates a grid search oracle.
func NewGridSearch() *GridSearch {
	return &GridSearch{tried: make(map[string]bool)}
}

// Ask returns the next unvisited grid point.
func (o *GridSearch) Ask(specs []*ParamSpec) (map[string]any, error) {
	sizes := make([]int, len(specs))
	total := 1
	for i, spec := range specs {
		n, err := gridPoints(spec)
		if err != nil {
			return nil, err
		}
		sizes[i] = n
		total *= n
	}

	if sig := specsSignature(specs); sig != o.signature {
		o.signature = sig
		o.cursor = 0
	}

	for ; o.cursor < total; o.cursor++ {
		values := o.pointAt(o.cursor, specs, sizes)
		key := valuesKey(values)
		if o.tried[key] {
			continue
		}
		o.tried[key] = true
		o.cursor++
		return values, nil
	}
	return nil, ErrExhausted
}

// pointAt decodes a flat index into one grid point, treating the index
// as a mixed-radix number over the per-spec sizes.
func (o *GridSearch) pointAt(index int, specs []*ParamSpec, sizes []int) map[string]any {
	values := make(map[string]any, len(specs))
	for i, spec := range specs {
		digit := index % sizes[i]
		index /= sizes[i]
		values[spec.Name] = gridValue(spec, digit)
	}
	return values
}

func gridPoints(spec *ParamSpec) (int, error) {
	switch spec.Kind {
	case KindInt:
		return spec.numSteps(), nil
	case KindFloat:
		if spec.Step <= 0 {
			return 0, fmt.Errorf("grid search requires a step for float hyperparameter %q", spec.Name)
		}
		return spec.numSteps(), nil
	case KindChoice:
		return len(spec.Choices), nil
	case KindBoolean:
		return 2, nil
	case KindFixed:
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown hyperparameter kind %q", spec.Kind)
	}
}

func gridValue(spec *ParamSpec, digit int) any {
	switch spec.Kind {
	case KindInt:
		return int(spec.Min) + digit*int(spec.Step)
	case KindFloat:
		return spec.Min + float64(digit)*spec.Step
	case KindChoice:
		return spec.Choices[digit]
	case KindBoolean:
		return digit == 1
	default: // KindFixed
		return spec.Default
	}
}

func specsSignature(specs []*ParamSpec) string {
	sig := ""
	for _, spec := range specs {
		sig += spec.Name + "|"
	}
	return sig
}

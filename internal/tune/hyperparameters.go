package tune

import (
	"fmt"
	"math"
	"sort"
)

// Sampling controls how Float hyperparameters are drawn.
type Sampling string

const (
	// SamplingLinear draws uniformly from [min, max].
	SamplingLinear Sampling = "linear"
	// SamplingLog draws uniformly in log space, so each decade of
	// [min, max] is equally likely. min must be positive.
	SamplingLog Sampling = "log"
)

// ParamKind identifies the type of a hyperparameter.
type ParamKind string

const (
	KindInt     ParamKind = "int"
	KindFloat   ParamKind = "float"
	KindChoice  ParamKind = "choice"
	KindBoolean ParamKind = "boolean"
	KindFixed   ParamKind = "fixed"
)

// ParamSpec describes one declared hyperparameter.
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	Min      float64  // Int, Float
	Max      float64  // Int, Float
	Step     float64  // Int (required), Float (optional, enables grid search)
	Sampling Sampling // Float only
	Choices  []string // Choice only
	Default  any
}

// space is the shared registry of declared hyperparameters. All
// HyperParameters handles forked from the same root see the same specs,
// so a parameter first declared inside a builder during trial N is
// visible to the oracle for trial N+1.
type space struct {
	specs []*ParamSpec
	index map[string]*ParamSpec
}

func (s *space) register(spec *ParamSpec) *ParamSpec {
	if existing, ok := s.index[spec.Name]; ok {
		return existing
	}
	s.specs = append(s.specs, spec)
	s.index[spec.Name] = spec
	return spec
}

// HyperParameters is a declared search space together with the sampled
// values of one trial. Retrieval methods double as declarations: the
// first call for a name registers its spec, and every call returns the
// trial's sampled value, or the declared default when none was sampled.
type HyperParameters struct {
	space  *space
	values map[string]any
}

// NewHyperParameters creates an empty search space.
func NewHyperParameters() *HyperParameters {
	return &HyperParameters{
		space:  &space{index: make(map[string]*ParamSpec)},
		values: make(map[string]any),
	}
}

// ForTrial returns a handle sharing this space's declarations but
// carrying the given sampled values.
func (hp *HyperParameters) ForTrial(values map[string]any) *HyperParameters {
	trial := &HyperParameters{space: hp.space, values: make(map[string]any, len(values))}
	for name, v := range values {
		trial.values[name] = v
	}
	return trial
}

// Specs returns the declared parameter specs in declaration order.
func (hp *HyperParameters) Specs() []*ParamSpec {
	return hp.space.specs
}

// Values returns the sampled values of this trial, sorted by name.
func (hp *HyperParameters) Values() map[string]any {
	out := make(map[string]any, len(hp.values))
	for name, v := range hp.values {
		out[name] = v
	}
	return out
}

// Names returns the declared parameter names in sorted order.
func (hp *HyperParameters) Names() []string {
	names := make([]string, 0, len(hp.space.specs))
	for _, spec := range hp.space.specs {
		names = append(names, spec.Name)
	}
	sort.Strings(names)
	return names
}

// Int declares an integer hyperparameter in [min, max] walked by step,
// and returns its value for this trial (min when unsampled).
func (hp *HyperParameters) Int(name string, min, max, step int) int {
	if step <= 0 {
		panic(fmt.Sprintf("hyperparameter %q: step must be positive", name))
	}
	if max < min {
		panic(fmt.Sprintf("hyperparameter %q: max %d < min %d", name, max, min))
	}
	hp.space.register(&ParamSpec{
		Name:    name,
		Kind:    KindInt,
		Min:     float64(min),
		Max:     float64(max),
		Step:    float64(step),
		Default: min,
	})

	if v, ok := hp.values[name]; ok {
		return toInt(name, v)
	}
	return min
}

// Float declares a float hyperparameter in [min, max] with the given
// sampling, and returns its value for this trial (min when unsampled).
func (hp *HyperParameters) Float(name string, min, max float64, sampling Sampling) float64 {
	if max < min {
		panic(fmt.Sprintf("hyperparameter %q: max %g < min %g", name, max, min))
	}
	if sampling == SamplingLog && min <= 0 {
		panic(fmt.Sprintf("hyperparameter %q: log sampling requires min > 0", name))
	}
	if sampling == "" {
		sampling = SamplingLinear
	}
	hp.space.register(&ParamSpec{
		Name:     name,
		Kind:     KindFloat,
		Min:      min,
		Max:      max,
		Sampling: sampling,
		Default:  min,
	})

	if v, ok := hp.values[name]; ok {
		return toFloat(name, v)
	}
	return min
}

// FloatStep is Float with a fixed step, which also makes the parameter
// enumerable by grid search.
func (hp *HyperParameters) FloatStep(name string, min, max, step float64) float64 {
	if step <= 0 {
		panic(fmt.Sprintf("hyperparameter %q: step must be positive", name))
	}
	if max < min {
		panic(fmt.Sprintf("hyperparameter %q: max %g < min %g", name, max, min))
	}
	hp.space.register(&ParamSpec{
		Name:     name,
		Kind:     KindFloat,
		Min:      min,
		Max:      max,
		Step:     step,
		Sampling: SamplingLinear,
		Default:  min,
	})

	if v, ok := hp.values[name]; ok {
		return toFloat(name, v)
	}
	return min
}

// Choice declares a string hyperparameter over options, and returns its
// value for this trial (the first option when unsampled).
func (hp *HyperParameters) Choice(name string, options []string) string {
	if len(options) == 0 {
		panic(fmt.Sprintf("hyperparameter %q: choice needs at least one option", name))
	}
	hp.space.register(&ParamSpec{
		Name:    name,
		Kind:    KindChoice,
		Choices: options,
		Default: options[0],
	})

	if v, ok := hp.values[name]; ok {
		s, ok := v.(string)
		if !ok {
			panic(fmt.Sprintf("hyperparameter %q: expected string value, got %T", name, v))
		}
		return s
	}
	return options[0]
}

// Boolean declares a boolean hyperparameter, and returns its value for
// this trial (defaultValue when unsampled).
func (hp *HyperParameters) Boolean(name string, defaultValue bool) bool {
	hp.space.register(&ParamSpec{
		Name:    name,
		Kind:    KindBoolean,
		Default: defaultValue,
	})

	if v, ok := hp.values[name]; ok {
		b, ok := v.(bool)
		if !ok {
			panic(fmt.Sprintf("hyperparameter %q: expected bool value, got %T", name, v))
		}
		return b
	}
	return defaultValue
}

// Fixed declares a hyperparameter pinned to a single value. It is
// recorded with the trial but never varied by the oracle.
func (hp *HyperParameters) Fixed(name string, value any) any {
	hp.space.register(&ParamSpec{
		Name:    name,
		Kind:    KindFixed,
		Default: value,
	})
	return value
}

// numSteps returns how many grid points an Int or stepped Float spec has.
func (s *ParamSpec) numSteps() int {
	if s.Step <= 0 {
		return 0
	}
	return int(math.Floor((s.Max-s.Min)/s.Step)) + 1
}

// toInt tolerates float64 values, which JSON round-trips produce.
func toInt(name string, v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		panic(fmt.Sprintf("hyperparameter %q: expected int value, got %T", name, v))
	}
}

func toFloat(name string, v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("hyperparameter %q: expected float value, got %T", name, v))
	}
}

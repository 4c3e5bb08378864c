package tune

// Direction says whether larger or smaller metric values are better.
type Direction string

const (
	DirectionMin Direction = "min"
	DirectionMax Direction = "max"
)

// Objective names the metric a search optimizes and its direction.
type Objective struct {
	Metric    string    `json:"metric" yaml:"metric"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// MinObjective creates a minimization objective over metric.
func MinObjective(metric string) Objective {
	return Objective{Metric: metric, Direction: DirectionMin}
}

// MaxObjective creates a maximization objective over metric.
func MaxObjective(metric string) Objective {
	return Objective{Metric: metric, Direction: DirectionMax}
}

// DefaultObjective minimizes validation loss.
func DefaultObjective() Objective {
	return MinObjective("val_loss")
}

// Better reports whether score a is strictly better than b under the
// objective direction. Ties are not better, so earlier trials win them.
func (o Objective) Better(a, b float64) bool {
	if o.Direction == DirectionMax {
		return a > b
	}
	return a < b
}

// BestOf returns the best value in scores under the objective
// direction. Panics on an empty slice.
func (o Objective) BestOf(scores []float64) float64 {
	if len(scores) == 0 {
		panic("BestOf: empty scores")
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if o.Better(s, best) {
			best = s
		}
	}
	return best
}

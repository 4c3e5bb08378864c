package tune

import (
	"time"

	"github.com/google/uuid"
)

// TrialStatus is the lifecycle state of a trial.
type TrialStatus string

const (
	TrialRunning   TrialStatus = "running"
	TrialCompleted TrialStatus = "completed"
	TrialFailed    TrialStatus = "failed"
)

// EpochMetrics records the metrics observed at the end of one epoch.
type EpochMetrics struct {
	Epoch   int                `json:"epoch"`
	Metrics map[string]float64 `json:"metrics"`
}

// Trial is one evaluation of a hyperparameter value set.
type Trial struct {
	ID          string         `json:"id"`
	Values      map[string]any `json:"values"`
	Status      TrialStatus    `json:"status"`
	Score       float64        `json:"score"`
	Error       string         `json:"error,omitempty"`
	History     []EpochMetrics `json:"history,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at,omitempty"`
}

// NewTrial creates a running trial with a fresh uuid for the given
// value set.
func NewTrial(values map[string]any) *Trial {
	return &Trial{
		ID:        uuid.NewString(),
		Values:    values,
		Status:    TrialRunning,
		StartedAt: time.Now().UTC(),
	}
}

// RecordEpoch appends the metrics of one finished epoch.
func (t *Trial) RecordEpoch(epoch int, metrics map[string]float64) {
	t.History = append(t.History, EpochMetrics{Epoch: epoch, Metrics: metrics})
}

// Complete marks the trial completed with its final score.
func (t *Trial) Complete(score float64) {
	t.Status = TrialCompleted
	t.Score = score
	t.CompletedAt = time.Now().UTC()
}

// Fail marks the trial failed.
func (t *Trial) Fail(err error) {
	t.Status = TrialFailed
	t.Error = err.Error()
	t.CompletedAt = time.Now().UTC()
}

// MetricHistory extracts one metric's per-epoch series from the history.
func (t *Trial) MetricHistory(metric string) []float64 {
	series := make([]float64, 0, len(t.History))
	for _, em := range t.History {
		if v, ok := em.Metrics[metric]; ok {
			series = append(series, v)
		}
	}
	return series
}

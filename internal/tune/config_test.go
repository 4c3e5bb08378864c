package tune

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tune.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
project: blobs
oracle: grid
seed: 42
max_trials: 6
epochs: 3
validation_split: 0.25
objective:
  metric: val_loss
  direction: min
search_space:
  - name: units
    type: int
    min: 32
    max: 128
    step: 32
  - name: learning_rate
    type: float
    min: 0.001
    max: 0.1
    sampling: log
  - name: activation
    type: choice
    options: [relu, tanh]
dataset:
  samples: 500
  features: 4
  classes: 3
  spread: 1.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "blobs", cfg.Project)
	assert.Equal(t, "grid", cfg.Oracle)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 6, cfg.MaxTrials)
	assert.Equal(t, 3, cfg.Epochs)
	assert.Equal(t, 0.25, cfg.ValidationSplit)
	assert.Equal(t, MinObjective("val_loss"), cfg.Objective)
	require.Len(t, cfg.SearchSpace, 3)
	assert.Equal(t, 500, cfg.Dataset.Samples)
	assert.Equal(t, 4, cfg.Dataset.Features)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `project: blobs`))
	require.NoError(t, err)

	assert.Equal(t, "random", cfg.Oracle)
	assert.Equal(t, 10, cfg.MaxTrials)
	assert.Equal(t, 2, cfg.Epochs)
	assert.Equal(t, 0.2, cfg.ValidationSplit)
	assert.Equal(t, "tune-output", cfg.OutputDir)
	assert.Equal(t, DefaultObjective(), cfg.Objective)
	assert.Equal(t, 1000, cfg.Dataset.Samples)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown oracle", `oracle: bayesian`},
		{"bad direction", "objective:\n  metric: val_loss\n  direction: sideways"},
		{"bad split", `validation_split: 1.5`},
		{"int without step", "search_space:\n  - name: units\n    type: int\n    min: 1\n    max: 8"},
		{"nameless param", "search_space:\n  - type: int\n    min: 1\n    max: 8\n    step: 1"},
		{"choice without options", "search_space:\n  - name: act\n    type: choice"},
		{"unknown type", "search_space:\n  - name: x\n    type: gaussian"},
		{"bad sampling", "search_space:\n  - name: lr\n    type: float\n    min: 0.1\n    max: 1\n    sampling: cubic"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigSpace(t *testing.T) {
	cfg := &Config{
		SearchSpace: []ParamConfig{
			{Name: "units", Type: "int", Min: 32, Max: 128, Step: 32},
			{Name: "lr_decay", Type: "float", Min: 0.85, Max: 1.0, Step: 0.05},
			{Name: "learning_rate", Type: "float", Min: 0.001, Max: 0.1, Sampling: "log"},
			{Name: "activation", Type: "choice", Options: []string{"relu", "tanh"}},
			{Name: "dropout", Type: "boolean", Value: true},
			{Name: "classes", Type: "fixed", Value: 4},
		},
	}

	hp := cfg.Space()
	specs := hp.Specs()
	require.Len(t, specs, 6)

	byName := make(map[string]*ParamSpec)
	for _, s := range specs {
		byName[s.Name] = s
	}
	assert.Equal(t, KindInt, byName["units"].Kind)
	assert.Equal(t, KindFloat, byName["lr_decay"].Kind)
	assert.Greater(t, byName["lr_decay"].Step, 0.0, "stepped float stays grid-enumerable")
	assert.Equal(t, SamplingLog, byName["learning_rate"].Sampling)
	assert.Equal(t, KindChoice, byName["activation"].Kind)
	assert.Equal(t, KindBoolean, byName["dropout"].Kind)
	assert.Equal(t, true, byName["dropout"].Default)
	assert.Equal(t, KindFixed, byName["classes"].Kind)
}

func TestConfigNewOracle(t *testing.T) {
	grid := &Config{Oracle: "grid"}
	_, ok := grid.NewOracle().(*GridSearch)
	assert.True(t, ok)

	random := &Config{Oracle: "random", Seed: 1}
	_, ok = random.NewOracle().(*RandomSearch)
	assert.True(t, ok)
}

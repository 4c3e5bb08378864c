package tune

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML definition of a search: the space, the objective,
// the trial budget and the training settings.
//
// Example:
//
//	project: blobs
//	oracle: random
//	seed: 42
//	max_trials: 10
//	epochs: 2
//	validation_split: 0.2
//	objective:
//	  metric: val_loss
//	  direction: min
//	search_space:
//	  - name: units
//	    type: int
//	    min: 32
//	    max: 256
//	    step: 32
//	  - name: learning_rate
//	    type: float
//	    min: 0.001
//	    max: 0.1
//	    sampling: log
type Config struct {
	Project         string        `yaml:"project"`
	Oracle          string        `yaml:"oracle"` // "random" or "grid"
	Seed            int64         `yaml:"seed"`
	MaxTrials       int           `yaml:"max_trials"`
	Epochs          int           `yaml:"epochs"`
	ValidationSplit float64       `yaml:"validation_split"`
	OutputDir       string        `yaml:"output_dir"`
	Objective       Objective     `yaml:"objective"`
	SearchSpace     []ParamConfig `yaml:"search_space"`
	Dataset         DatasetConfig `yaml:"dataset"`
}

// ParamConfig declares one hyperparameter in YAML.
type ParamConfig struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"` // int, float, choice, boolean, fixed
	Min      float64  `yaml:"min"`
	Max      float64  `yaml:"max"`
	Step     float64  `yaml:"step"`
	Sampling string   `yaml:"sampling"` // linear (default) or log
	Options  []string `yaml:"options"`  // choice
	Value    any      `yaml:"value"`    // fixed, boolean default
}

// DatasetConfig describes the synthetic dataset a CLI-driven search
// trains on.
type DatasetConfig struct {
	Samples  int     `yaml:"samples"`
	Features int     `yaml:"features"`
	Classes  int     `yaml:"classes"`
	Spread   float32 `yaml:"spread"`
}

// LoadConfig reads and validates a YAML search config.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Project == "" {
		c.Project = "default"
	}
	if c.Oracle == "" {
		c.Oracle = "random"
	}
	if c.MaxTrials <= 0 {
		c.MaxTrials = 10
	}
	if c.Epochs <= 0 {
		c.Epochs = 2
	}
	if c.ValidationSplit == 0 {
		c.ValidationSplit = 0.2
	}
	if c.OutputDir == "" {
		c.OutputDir = "tune-output"
	}
	if c.Objective.Metric == "" {
		c.Objective = DefaultObjective()
	}
	if c.Dataset.Samples == 0 {
		c.Dataset = DatasetConfig{Samples: 1000, Features: 8, Classes: 4, Spread: 1.5}
	}
}

func (c *Config) validate() error {
	if c.Oracle != "random" && c.Oracle != "grid" {
		return fmt.Errorf("config: unknown oracle %q (want random or grid)", c.Oracle)
	}
	if d := c.Objective.Direction; d != DirectionMin && d != DirectionMax {
		return fmt.Errorf("config: unknown objective direction %q", d)
	}
	if c.ValidationSplit <= 0 || c.ValidationSplit >= 1 {
		return fmt.Errorf("config: validation_split must be in (0, 1), got %g", c.ValidationSplit)
	}
	for _, p := range c.SearchSpace {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p *ParamConfig) validate() error {
	if p.Name == "" {
		return fmt.Errorf("config: search space parameter without a name")
	}
	switch p.Type {
	case "int":
		if p.Step <= 0 {
			return fmt.Errorf("config: int parameter %q needs a positive step", p.Name)
		}
	case "float":
		if p.Sampling != "" && p.Sampling != string(SamplingLinear) && p.Sampling != string(SamplingLog) {
			return fmt.Errorf("config: float parameter %q has unknown sampling %q", p.Name, p.Sampling)
		}
	case "choice":
		if len(p.Options) == 0 {
			return fmt.Errorf("config: choice parameter %q needs options", p.Name)
		}
	case "boolean", "fixed":
	default:
		return fmt.Errorf("config: parameter %q has unknown type %q", p.Name, p.Type)
	}
	return nil
}

// Space builds the declared search space from the config.
func (c *Config) Space() *HyperParameters {
	hp := NewHyperParameters()
	for _, p := range c.SearchSpace {
		switch p.Type {
		case "int":
			hp.Int(p.Name, int(p.Min), int(p.Max), int(p.Step))
		case "float":
			if p.Step > 0 {
				hp.FloatStep(p.Name, p.Min, p.Max, p.Step)
			} else {
				hp.Float(p.Name, p.Min, p.Max, Sampling(p.Sampling))
			}
		case "choice":
			hp.Choice(p.Name, p.Options)
		case "boolean":
			def, _ := p.Value.(bool)
			hp.Boolean(p.Name, def)
		case "fixed":
			hp.Fixed(p.Name, p.Value)
		}
	}
	return hp
}

// NewOracle builds the configured oracle.
func (c *Config) NewOracle() Oracle {
	if c.Oracle == "grid" {
		return NewGridSearch()
	}
	return NewRandomSearch(c.Seed)
}

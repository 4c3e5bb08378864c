package tune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchSpecs() []*ParamSpec {
	hp := NewHyperParameters()
	hp.Int("units", 32, 128, 32)
	hp.Float("learning_rate", 0.001, 0.1, SamplingLog)
	hp.Choice("activation", []string{"relu", "tanh"})
	hp.Boolean("dropout", false)
	return hp.Specs()
}

func TestRandomSearchSamplesWithinBounds(t *testing.T) {
	oracle := NewRandomSearch(42)
	specs := searchSpecs()

	for i := 0; i < 20; i++ {
		values, err := oracle.Ask(specs)
		require.NoError(t, err)
		require.Len(t, values, 4)

		units := values["units"].(int)
		assert.GreaterOrEqual(t, units, 32)
		assert.LessOrEqual(t, units, 128)
		assert.Zero(t, units%32, "units must land on the step grid")

		lr := values["learning_rate"].(float64)
		assert.GreaterOrEqual(t, lr, 0.001)
		assert.LessOrEqual(t, lr, 0.1)

		assert.Contains(t, []string{"relu", "tanh"}, values["activation"])
	}
}

func TestRandomSearchReproducible(t *testing.T) {
	specs := searchSpecs()
	a := NewRandomSearch(7)
	b := NewRandomSearch(7)

	for i := 0; i < 5; i++ {
		va, err := a.Ask(specs)
		require.NoError(t, err)
		vb, err := b.Ask(specs)
		require.NoError(t, err)
		assert.Equal(t, va, vb, "ask %d diverged between equal seeds", i)
	}
}

func TestRandomSearchDeduplicatesAndExhausts(t *testing.T) {
	hp := NewHyperParameters()
	hp.Boolean("dropout", false)
	specs := hp.Specs()

	oracle := NewRandomSearch(1)
	seen := make(map[string]bool)
	for i := 0; i < 2; i++ {
		values, err := oracle.Ask(specs)
		require.NoError(t, err)
		key := valuesKey(values)
		assert.False(t, seen[key], "duplicate value set suggested")
		seen[key] = true
	}

	_, err := oracle.Ask(specs)
	assert.ErrorIs(t, err, ErrExhausted, "two booleans exhaust the space")
}

func TestRandomSearchEmptySpace(t *testing.T) {
	oracle := NewRandomSearch(1)

	// The first ask on an undeclared space yields the defaults trial.
	values, err := oracle.Ask(nil)
	require.NoError(t, err)
	assert.Empty(t, values)

	_, err = oracle.Ask(nil)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGridSearchEnumeratesExactly(t *testing.T) {
	hp := NewHyperParameters()
	hp.Int("units", 32, 64, 32)
	hp.Choice("activation", []string{"relu", "tanh"})
	hp.Boolean("dropout", false)
	specs := hp.Specs()

	oracle := NewGridSearch()
	seen := make(map[string]bool)
	for i := 0; i < 8; i++ {
		values, err := oracle.Ask(specs)
		require.NoError(t, err, "ask %d", i)
		key := valuesKey(values)
		require.False(t, seen[key], "grid point %s handed out twice", key)
		seen[key] = true
	}
	assert.Len(t, seen, 8, "2 units x 2 activations x 2 booleans")

	_, err := oracle.Ask(specs)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestGridSearchSteppedFloat(t *testing.T) {
	hp := NewHyperParameters()
	hp.FloatStep("rate", 0.0, 1.0, 0.5)
	specs := hp.Specs()

	oracle := NewGridSearch()
	var got []float64
	for i := 0; i < 3; i++ {
		values, err := oracle.Ask(specs)
		require.NoError(t, err)
		got = append(got, values["rate"].(float64))
	}
	assert.ElementsMatch(t, []float64{0.0, 0.5, 1.0}, got)
}

func TestGridSearchRejectsUnsteppedFloat(t *testing.T) {
	hp := NewHyperParameters()
	hp.Float("learning_rate", 0.001, 0.1, SamplingLog)

	oracle := NewGridSearch()
	_, err := oracle.Ask(hp.Specs())
	assert.Error(t, err)
}

func TestGridSearchSurvivesSpaceGrowth(t *testing.T) {
	hp := NewHyperParameters()
	hp.Boolean("dropout", false)

	oracle := NewGridSearch()
	first, err := oracle.Ask(hp.Specs())
	require.NoError(t, err)

	// A builder declares another parameter mid-search. The walk restarts
	// over the bigger space but never repeats a suggested point.
	hp.Choice("activation", []string{"relu", "tanh"})
	seen := map[string]bool{valuesKey(first): true}
	for {
		values, err := oracle.Ask(hp.Specs())
		if err != nil {
			assert.ErrorIs(t, err, ErrExhausted)
			break
		}
		key := valuesKey(values)
		assert.False(t, seen[key], "repeated point %s after space growth", key)
		seen[key] = true
	}
}

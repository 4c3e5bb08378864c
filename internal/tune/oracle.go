package tune

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrExhausted is returned by an Oracle when the search space has no
// untried value sets left. The tuner stops the search cleanly on it.
var ErrExhausted = errors.New("search space exhausted")

// Oracle suggests hyperparameter value sets to evaluate. An oracle never
// re-suggests a value set it already handed out.
type Oracle interface {
	// Ask returns the next value set for the given declared specs.
	// Returns ErrExhausted when nothing untried remains.
	Ask(specs []*ParamSpec) (map[string]any, error)
}

// valuesKey builds a canonical identity for a value set. json.Marshal
// sorts map keys, so equal sets always produce equal keys.
func valuesKey(values map[string]any) string {
	b, err := json.Marshal(values)
	if err != nil {
		panic(fmt.Sprintf("unmarshalable hyperparameter values: %v", err))
	}
	return string(b)
}

// Package catch decides catch attempts from a Pokémon's evolution stage.
package catch

import (
	"math/rand/v2"
)

// StageChance is the catch probability per evolution stage.
// Earlier stages are easier to catch; stages past the table use the last tier.
var StageChance = [...]float64{0.90, 0.50, 0.30}

// RandomSource returns a uniform sample in [0, 1).
// A source shared by concurrent attempts must be safe for concurrent use.
type RandomSource func() float64

// DefaultSource draws from the global math/rand/v2 generator.
func DefaultSource() RandomSource {
	return rand.Float64
}

// FixedSource always returns v. Intended for tests and replays.
func FixedSource(v float64) RandomSource {
	return func() float64 { return v }
}

// SequenceSource returns the given values in order, repeating the last one.
func SequenceSource(values ...float64) RandomSource {
	i := 0
	return func() float64 {
		if len(values) == 0 {
			return 0
		}
		v := values[min(i, len(values)-1)]
		i++
		return v
	}
}

// ChanceFor returns the catch probability for a stage.
// Negative stages use the first tier, stages beyond the table the last one.
func ChanceFor(stage int) float64 {
	if stage < 0 {
		return StageChance[0]
	}
	if stage >= len(StageChance) {
		return StageChance[len(StageChance)-1]
	}
	return StageChance[stage]
}

// Result is the outcome of one catch roll.
type Result struct {
	Success bool    `json:"success"`
	Stage   int     `json:"stage"`
	Chance  float64 `json:"chance"`
	Roll    float64 `json:"roll"`
}

// Evaluator rolls catch attempts against the stage table.
type Evaluator struct {
	source RandomSource
}

// NewEvaluator creates an evaluator. A nil source uses DefaultSource.
func NewEvaluator(source RandomSource) *Evaluator {
	if source == nil {
		source = DefaultSource()
	}
	return &Evaluator{source: source}
}

// Evaluate draws one sample and succeeds iff it is below the stage chance.
func (e *Evaluator) Evaluate(stage int) Result {
	chance := ChanceFor(stage)
	roll := e.source()
	return Result{
		Success: roll < chance,
		Stage:   stage,
		Chance:  chance,
		Roll:    roll,
	}
}

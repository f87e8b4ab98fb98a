package catch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		stage   int
		roll    float64
		success bool
	}{
		{"base form just below", 0, 0.89999, true},
		{"base form just above", 0, 0.90001, false},
		{"base form exact chance fails", 0, 0.90, false},
		{"middle stage below", 1, 0.49, true},
		{"middle stage above", 1, 0.51, false},
		{"final stage above", 2, 0.30001, false},
		{"final stage below", 2, 0.29999, true},
		{"stage past table uses last tier", 5, 0.29999, true},
		{"stage past table above last tier", 3, 0.30001, false},
		{"negative stage uses first tier", -1, 0.89, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(FixedSource(tt.roll))
			got := e.Evaluate(tt.stage)
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.roll, got.Roll)
			assert.Equal(t, tt.stage, got.Stage)
		})
	}
}

func TestChanceFor(t *testing.T) {
	assert.Equal(t, 0.90, ChanceFor(0))
	assert.Equal(t, 0.50, ChanceFor(1))
	assert.Equal(t, 0.30, ChanceFor(2))
	assert.Equal(t, 0.30, ChanceFor(3))
	assert.Equal(t, 0.90, ChanceFor(-2))
}

func TestSequenceSource(t *testing.T) {
	src := SequenceSource(0.1, 0.95)

	assert.Equal(t, 0.1, src())
	assert.Equal(t, 0.95, src())
	assert.Equal(t, 0.95, src(), "last value repeats")
}

func TestDefaultSource_InRange(t *testing.T) {
	e := NewEvaluator(nil)
	for i := 0; i < 1000; i++ {
		r := e.Evaluate(0)
		if r.Roll < 0 || r.Roll >= 1 {
			t.Fatalf("roll %v out of [0,1)", r.Roll)
		}
	}
}

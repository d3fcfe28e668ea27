package lpboost_test

import (
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/lpboost"
	"github.com/inference-sim/boostctl/learner/stump"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooster_SeparatesLinearlySeparableData(t *testing.T) {
	// GIVEN a toy sample perfectly separable at x=0.5
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := lpboost.New(s, 0.1)

	// WHEN running LPBoost to completion
	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	// THEN every training row is classified correctly
	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}

	// AND the hypothesis weights are the non-negative constraint duals,
	// summing to one
	sum := 0.0
	for _, w := range h.Inner {
		assert.GreaterOrEqual(t, w.Weight, 0.0)
		sum += w.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

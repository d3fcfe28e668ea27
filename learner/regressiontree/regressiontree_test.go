package regressiontree_test

import (
	"testing"

	"github.com/inference-sim/boostctl/learner/regressiontree"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearner_FitsStepFunction(t *testing.T) {
	// GIVEN a feature with a clean step in the residual at x=0.5
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{0, 0, 0, 0}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	// predictions is the weighting slot GBM passes: current predictions,
	// not the residual directly. target - predictions recovers the step
	// the tree should fit.
	predictions := []float64{1.0, 1.0, -1.0, -1.0}
	residual := []float64{-1.0, -1.0, 1.0, 1.0}

	// WHEN fitting a tree against the implied residual
	h, err := regressiontree.NewLearner().Produce(s, predictions)
	require.NoError(t, err)

	// THEN it recovers the step almost exactly
	for i := 0; i < s.Rows(); i++ {
		assert.InDelta(t, residual[i], h.Predict(s, i), 1e-9)
	}
}

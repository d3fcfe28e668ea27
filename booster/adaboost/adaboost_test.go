package adaboost_test

import (
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/adaboost"
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

	b := adaboost.New(s, 0.1)

	// WHEN running AdaBoost to completion
	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	// THEN every training row is classified correctly
	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

func TestBooster_ThreeRowToySample(t *testing.T) {
	// GIVEN three rows over four features with mixed-sign labels
	names := []string{"a", "b", "c", "d"}
	columns := [][]float64{
		{1.2, 0.1, -21},
		{0.5, 0.2, 2},
		{-1, 0.3, 1.9},
		{2, -9, 7.1},
	}
	target := []float64{1, -1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := adaboost.New(s, 0.1)

	// WHEN running AdaBoost with stumps
	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	// THEN training error reaches zero
	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

func TestPreprocess_RejectsOutOfRangeTolerance(t *testing.T) {
	s, err := sample.NewDense([]string{"x"}, [][]float64{{0, 1}}, []float64{-1, 1})
	require.NoError(t, err)

	b := adaboost.New(s, 0)
	_, err = b.Preprocess(stump.Learner{})
	assert.ErrorIs(t, err, booster.ErrConfiguration)
}

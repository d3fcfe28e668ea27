package mlpboost_test

import (
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/mlpboost"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/learner/stump"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooster_SeparatesLinearlySeparableData(t *testing.T) {
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := mlpboost.New(s, 0.2)

	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

func TestBooster_MergesRepeatedHypotheses(t *testing.T) {
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := mlpboost.New(s, 0.05)

	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	for i := range h.Inner {
		for j := i + 1; j < len(h.Inner); j++ {
			assert.False(t, hypothesis.Same(h.Inner[i].H, h.Inner[j].H))
		}
	}
}

func TestPreprocess_RejectsOutOfRangeTolerance(t *testing.T) {
	s, err := sample.NewDense([]string{"x"}, [][]float64{{0, 1}}, []float64{-1, 1})
	require.NoError(t, err)

	b := mlpboost.New(s, 0.6)
	_, err = b.Preprocess(stump.Learner{})
	assert.ErrorIs(t, err, booster.ErrConfiguration)
}

package adaboostv_test

import (
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/adaboostv"
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

	b := adaboostv.New(s, 0.05)

	// WHEN running AdaBoostV to completion
	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	// THEN every training row is classified correctly
	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

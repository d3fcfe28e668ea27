package totalboost_test

import (
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/totalboost"
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

	b := totalboost.New(s, 0.2)

	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

func TestPreprocess_PinsCappingToOne(t *testing.T) {
	s, err := sample.NewDense([]string{"x"}, [][]float64{{0, 1}}, []float64{-1, 1})
	require.NoError(t, err)

	b := totalboost.New(s, 0.1)
	maxIter, err := b.Preprocess(stump.Learner{})
	require.NoError(t, err)
	// With nu pinned to 1 the bound is ceil(2*ln(2/1)/0.1^2) = 139.
	assert.Equal(t, 139, maxIter)
}

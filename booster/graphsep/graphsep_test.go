package graphsep_test

import (
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/graphsep"
	"github.com/inference-sim/boostctl/learner/stump"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooster_SeparatesAllDisagreementEdges(t *testing.T) {
	// GIVEN a toy sample perfectly separable at x=0.5
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := graphsep.New(s)

	// WHEN running GraphSepBoost to completion
	h, err := booster.RunNaive(b, stump.Learner{})
	require.NoError(t, err)

	// THEN the majority-vote aggregation classifies every row correctly
	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

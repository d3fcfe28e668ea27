package stump_test

import (
	"testing"

	"github.com/inference-sim/boostctl/learner/stump"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearner_FindsPerfectSplit(t *testing.T) {
	// GIVEN a single feature that perfectly separates the two classes
	// at x=0.5
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.9, 0.8}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	weighting := []float64{0.25, 0.25, 0.25, 0.25}

	// WHEN producing a stump
	h, err := stump.Learner{}.Produce(s, weighting)
	require.NoError(t, err)

	// THEN it classifies every row correctly
	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

func TestHypothesis_EqualMatchesIdenticalSplit(t *testing.T) {
	a := &stump.Hypothesis{FeatureIndex: 1, Threshold: 0.5, Left: -1, Right: 1}
	b := &stump.Hypothesis{FeatureIndex: 1, Threshold: 0.5, Left: -1, Right: 1}
	c := &stump.Hypothesis{FeatureIndex: 0, Threshold: 0.5, Left: -1, Right: 1}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestLearner_SkewedWeightingStillSeparates(t *testing.T) {
	// GIVEN three rows where two features (b and d) separate the labels, under
	// a heavily skewed weighting
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

	weighting := []float64{0.7, 0.1, 0.2}

	// WHEN producing a stump
	h, err := stump.Learner{}.Produce(s, weighting)
	require.NoError(t, err)

	// THEN its sign agrees with every label
	for i := 0; i < s.Rows(); i++ {
		assert.Equal(t, target[i], h.Predict(s, i))
	}
}

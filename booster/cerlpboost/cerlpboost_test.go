package cerlpboost_test

import (
	"math"
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/cerlpboost"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/learner/stump"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooster_TerminatesWithinBound(t *testing.T) {
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	nu := 0.1 * float64(s.Rows())
	if nu < 1.0 {
		nu = 1.0
	}
	epsilon := 0.1
	b := cerlpboost.New(s, epsilon)
	b.Nu = nu

	maxIter, err := b.Preprocess(stump.Learner{})
	require.NoError(t, err)

	m := float64(s.Rows())
	bound := int(math.Ceil(8.0 * math.Log(m/nu) / (epsilon * epsilon)))
	assert.LessOrEqual(t, maxIter, bound+1)

	_, err = booster.Run(b, stump.Learner{})
	require.NoError(t, err)
}

func TestBooster_MergesRepeatedHypotheses(t *testing.T) {
	// GIVEN a sample where the stump learner quickly settles on one split
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := cerlpboost.New(s, 0.01)

	// WHEN running to completion
	h, err := booster.Run(b, stump.Learner{})
	require.NoError(t, err)

	// THEN a repeated split was folded into its entry, never duplicated
	for i := range h.Inner {
		for j := i + 1; j < len(h.Inner); j++ {
			assert.False(t, hypothesis.Same(h.Inner[i].H, h.Inner[j].H))
		}
	}
}

func TestPreprocess_RejectsNonPositiveTolerance(t *testing.T) {
	s, err := sample.NewDense([]string{"x"}, [][]float64{{0, 1}}, []float64{-1, 1})
	require.NoError(t, err)

	b := cerlpboost.New(s, 0)
	_, err = b.Preprocess(stump.Learner{})
	assert.ErrorIs(t, err, booster.ErrConfiguration)
}

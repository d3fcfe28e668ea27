package gbm_test

import (
	"testing"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/booster/gbm"
	"github.com/inference-sim/boostctl/learner/regressiontree"
	"github.com/inference-sim/boostctl/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooster_FitsStepFunctionTarget(t *testing.T) {
	// GIVEN a clean step-function regression target
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := gbm.New(s)
	b.MaxIter = 20

	// WHEN running GBM to completion
	h, err := booster.Run(b, regressiontree.NewLearner())
	require.NoError(t, err)

	// THEN the fitted regression values are close to the target
	for i := 0; i < s.Rows(); i++ {
		assert.InDelta(t, target[i], h.PredictValue(s, i), 0.2)
	}
}

func TestBooster_BeatsTargetVariance(t *testing.T) {
	// GIVEN a nonlinear regression target over two features
	n := 40
	x1 := make([]float64, n)
	x2 := make([]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		x1[i] = float64(i) / float64(n)
		x2[i] = float64((i*7)%n) / float64(n)
		target[i] = 3.0*x1[i] - 2.0*x2[i]*x2[i] + 0.5
	}
	s, err := sample.NewDense([]string{"x1", "x2"}, [][]float64{x1, x2}, target)
	require.NoError(t, err)

	b := gbm.New(s)
	b.MaxIter = 100

	// WHEN running 100 rounds of depth-3 trees under L2 loss
	h, err := booster.Run(b, regressiontree.NewLearner())
	require.NoError(t, err)

	// THEN the train MSE beats the variance of the target (the MSE of
	// the best constant predictor)
	mean := 0.0
	for _, y := range target {
		mean += y
	}
	mean /= float64(n)
	variance := 0.0
	mse := 0.0
	for i, y := range target {
		d := y - mean
		variance += d * d
		e := y - h.PredictValue(s, i)
		mse += e * e
	}
	assert.Less(t, mse, variance)
}

func TestBooster_HuberLossFitsStepFunctionTarget(t *testing.T) {
	names := []string{"x"}
	columns := [][]float64{{0.1, 0.2, 0.8, 0.9}}
	target := []float64{-1, -1, 1, 1}
	s, err := sample.NewDense(names, columns, target)
	require.NoError(t, err)

	b := gbm.New(s)
	b.MaxIter = 20
	b.LossKind = gbm.Huber

	h, err := booster.Run(b, regressiontree.NewLearner())
	require.NoError(t, err)

	for i := 0; i < s.Rows(); i++ {
		assert.InDelta(t, target[i], h.PredictValue(s, i), 0.3)
	}
}

package numeric_test

import (
	"math"
	"testing"

	"github.com/inference-sim/boostctl/numeric"
	"github.com/stretchr/testify/assert"
)

func TestLogSumExp_ShiftInvariant(t *testing.T) {
	// GIVEN a finite vector and a constant shift
	x := []float64{-3.0, 0.5, 2.1, -700.0, 700.0}
	c := 12.34

	// WHEN computing logsumexp of the shifted and unshifted vectors
	shifted := make([]float64, len(x))
	for i, v := range x {
		shifted[i] = v + c
	}

	// THEN logsumexp(x + c) == logsumexp(x) + c to high precision
	assert.InDelta(t, numeric.LogSumExp(x)+c, numeric.LogSumExp(shifted), 1e-9)
}

func TestLogSumExp_HandlesExtremeMagnitudes(t *testing.T) {
	x := []float64{700, -700, 0}
	got := numeric.LogSumExp(x)
	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))
	assert.InDelta(t, 700.0, got, 1e-9)
}

func TestNormalizeLog_SumsToOne(t *testing.T) {
	logW := []float64{0.1, -2.0, 3.5, -0.2}
	d := numeric.NormalizeLog(logW)

	sum := 0.0
	for _, v := range d {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestEdge_WeightedCorrelation(t *testing.T) {
	d := []float64{0.5, 0.3, 0.2}
	margin := []float64{1.0, -1.0, 1.0}
	assert.InDelta(t, 0.5*1.0+0.3*-1.0+0.2*1.0, numeric.Edge(d, margin), 1e-12)
}

func TestMarginVector(t *testing.T) {
	target := []float64{1, -1, 1}
	conf := []float64{0.2, 0.4, -0.9}
	got := numeric.MarginVector(target, conf)
	assert.InDeltaSlice(t, []float64{0.2, -0.4, -0.9}, got, 1e-12)
}

func TestProjectCappedSimplex_FeasibleInputIsFixedPoint(t *testing.T) {
	// GIVEN an already-feasible uniform distribution re-expressed as scores
	n := 5
	nu := 5.0
	uni := 1.0 / float64(n)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = math.Log(uni)
	}

	// WHEN projecting
	d := numeric.ProjectCappedSimplex(scores, nu)

	// THEN the result matches the uniform distribution
	for _, v := range d {
		assert.InDelta(t, uni, v, 1e-9)
	}
}

func TestProjectCappedSimplex_RespectsCapAndSumsToOne(t *testing.T) {
	nu := 2.0 // cap = 1/2
	scores := []float64{10, 9, 0, -1, -2, -50}

	d := numeric.ProjectCappedSimplex(scores, nu)

	sum := 0.0
	cap := 1.0 / nu
	for _, v := range d {
		assert.GreaterOrEqual(t, v, -1e-12)
		assert.LessOrEqual(t, v, cap+1e-9)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

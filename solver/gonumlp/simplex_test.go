package gonumlp_test

import (
	"math"
	"testing"

	"github.com/inference-sim/boostctl/solver"
	"github.com/inference-sim/boostctl/solver/gonumlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOptimize_LPBoostShapedProblem mirrors the LP LPBoost solves each
// round: minimize gamma subject to the distribution summing to one and
// one margin constraint per hypothesis seen so far.
func TestOptimize_LPBoostShapedProblem(t *testing.T) {
	m := gonumlp.New()
	d0 := m.AddVar("d0", 0, math.Inf(1))
	d1 := m.AddVar("d1", 0, math.Inf(1))
	gamma := m.AddVar("gamma", math.Inf(-1), math.Inf(1))

	m.AddConstrEQ(map[solver.VarID]float64{d0: 1, d1: 1}, 1.0)
	// A hypothesis that is correct on row 0, wrong on row 1: margin
	// contributions +1 and -1 respectively, rearranged as
	// d0 - d1 - gamma <= 0.
	m.AddConstrLE(map[solver.VarID]float64{d0: 1, d1: -1, gamma: -1}, 0)
	m.SetObjective(map[solver.VarID]float64{gamma: 1}, true)

	status, err := m.Optimize()
	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, status)

	// The minimum puts all mass on the misclassified row: d0=0, d1=1,
	// gamma = d0 - d1 = -1.
	assert.InDelta(t, -1.0, m.Primal(gamma), 1e-6)
	assert.InDelta(t, 0.0, m.Primal(d0), 1e-6)
	assert.InDelta(t, 1.0, m.Primal(d1), 1e-6)
}

func TestOptimize_BoundedVariableRespectsCap(t *testing.T) {
	m := gonumlp.New()
	cap := 0.3
	d0 := m.AddVar("d0", 0, cap)
	d1 := m.AddVar("d1", 0, cap)
	d2 := m.AddVar("d2", 0, cap)
	d3 := m.AddVar("d3", 0, cap)

	m.AddConstrEQ(map[solver.VarID]float64{d0: 1, d1: 1, d2: 1, d3: 1}, 1.0)
	// Maximize d0: should hit the cap rather than take the whole mass.
	m.SetObjective(map[solver.VarID]float64{d0: 1}, false)

	status, err := m.Optimize()
	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, status)
	assert.InDelta(t, cap, m.Primal(d0), 1e-6)
}

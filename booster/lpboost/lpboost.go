// Package lpboost implements LPBoost (Warmuth, Glocer & Rätsch, 2008),
// the soft-margin booster that re-solves a growing linear program every
// round: minimize the margin gamma subject to the distribution summing
// to one and capped per example, with one margin constraint added per
// hypothesis seen so far. The constraint duals become the hypothesis
// weights.
package lpboost

import (
	"fmt"
	"math"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/numeric"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/solver"
	"github.com/inference-sim/boostctl/solver/gonumlp"
	"github.com/inference-sim/boostctl/weaklearner"
)

// Booster is LPBoost over a fixed training sample.
type Booster struct {
	sample sample.Sample

	// Tolerance is the optimality gap at which the loop stops.
	Tolerance float64
	// Capping is the soft-margin capping parameter nu, in [1, m]. The
	// per-example distribution weight is bounded by 1/Capping. Capping=1
	// (the default) recovers the hard-margin case (no upper bound).
	Capping float64

	dist        []float64
	gammaHat    float64
	classifiers []hypothesis.Hypothesis
	weights     []float64

	// The LP model persists across rounds: variables, the simplex
	// equality, and the objective are laid down once in Preprocess, and
	// Boost only appends one margin row per hypothesis before
	// re-solving.
	mdl           *gonumlp.Model
	ds            []solver.VarID
	gammaVar      solver.VarID
	marginConstrs []int

	maxIter int
}

// New builds an LPBoost booster with capping=1 (hard margin) by default.
func New(s sample.Sample, tolerance float64) *Booster {
	return &Booster{sample: s, Tolerance: tolerance, Capping: 1.0}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	m := b.sample.Rows()
	if m == 0 {
		return 0, booster.ConfigErrorf("sample has no rows")
	}
	if b.Capping < 1.0 || b.Capping > float64(m) {
		return 0, booster.ConfigErrorf("capping %g must be in [1, %d]", b.Capping, m)
	}
	if b.Tolerance <= 0 {
		return 0, booster.ConfigErrorf("tolerance %g must be positive", b.Tolerance)
	}

	uni := 1.0 / float64(m)
	b.dist = make([]float64, m)
	for i := range b.dist {
		b.dist[i] = uni
	}
	b.gammaHat = 1.0
	b.classifiers = nil
	b.weights = nil

	b.buildModel(m)

	// LPBoost's own termination criterion has no a-priori iteration
	// bound (the loop runs until the optimality gap closes); cap rounds
	// at 2*ln(m)/tolerance^2 as a generous backstop.
	b.maxIter = int(math.Ceil(2.0 * math.Log(float64(m)) / (b.Tolerance * b.Tolerance)))
	if b.maxIter < 1 {
		b.maxIter = 1
	}
	return b.maxIter, nil
}

// buildModel lays down the round-invariant part of the LP: one capped
// distribution variable per row, a free gamma, the simplex equality, and
// the minimize-gamma objective. Margin rows are appended by Boost.
func (b *Booster) buildModel(m int) {
	ub := 1.0 / b.Capping

	b.mdl = gonumlp.New()
	b.ds = make([]solver.VarID, m)
	for i := range b.ds {
		b.ds[i] = b.mdl.AddVar("", 0, ub)
	}
	b.gammaVar = b.mdl.AddVar("gamma", math.Inf(-1), math.Inf(1))

	sumCoef := make(map[solver.VarID]float64, m)
	for _, v := range b.ds {
		sumCoef[v] = 1
	}
	b.mdl.AddConstrEQ(sumCoef, 1.0)

	b.mdl.SetObjective(map[solver.VarID]float64{b.gammaVar: 1}, true)
	b.marginConstrs = nil
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	h, err := wl.Produce(b.sample, b.dist)
	if err != nil {
		return control.State{}, fmt.Errorf("lpboost: weak learner: %w", err)
	}

	target := b.sample.Target()
	conf := h.BatchConfidence(b.sample)
	if err := booster.CheckConfidences(conf); err != nil {
		return control.State{}, err
	}
	margin := make([]float64, len(target))
	for i := range target {
		margin[i] = target[i] * conf[i]
	}

	edge := numeric.Edge(b.dist, margin)
	if edge < b.gammaHat {
		b.gammaHat = edge
	}

	b.classifiers = append(b.classifiers, h)

	coef := make(map[solver.VarID]float64, len(b.ds)+1)
	for i, v := range b.ds {
		coef[v] = margin[i]
	}
	coef[b.gammaVar] = -1
	b.marginConstrs = append(b.marginConstrs, b.mdl.AddConstrLE(coef, 0))

	status, err := b.mdl.Optimize()
	if err != nil {
		return control.State{}, booster.SolverErrorf("lpboost lp: %w", err)
	}
	switch status {
	case solver.Optimal:
	case solver.SubOptimal, solver.Infeasible, solver.InfeasibleOrUnbounded:
		// Per the numeric-degeneracy contract, a non-Optimal status (the
		// LP has become infeasible or only suboptimally solvable at this
		// tolerance) means optimality has effectively been reached:
		// terminate cleanly on the previous round's weights rather than
		// reading a primal/dual solution that does not exist.
		b.classifiers = b.classifiers[:len(b.classifiers)-1]
		b.marginConstrs = b.marginConstrs[:len(b.marginConstrs)-1]
		return control.Terminating(iteration), nil
	default:
		return control.State{}, booster.SolverErrorf("lpboost lp: status %s", status)
	}

	weights := make([]float64, len(b.marginConstrs))
	for i, idx := range b.marginConstrs {
		weights[i] = math.Abs(b.mdl.Dual(idx))
	}
	b.weights = weights

	gammaStar := b.mdl.Primal(b.gammaVar)
	if gammaStar >= b.gammaHat-b.Tolerance {
		return control.Terminating(iteration), nil
	}

	dist := make([]float64, len(b.ds))
	for i, v := range b.ds {
		dist[i] = b.mdl.Primal(v)
	}
	b.dist = dist

	return control.Continuing(), nil
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	var weights []float64
	var clfs []hypothesis.Hypothesis
	for i, w := range b.weights {
		if w != 0.0 {
			weights = append(weights, w)
			clfs = append(clfs, b.classifiers[i])
		}
	}
	return hypothesis.NewCombined(weights, clfs), nil
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	h, _ := b.Postprocess(nil)
	return h
}

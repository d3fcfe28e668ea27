// Package softboost implements SoftBoost (Warmuth, Glocer & Vishwanathan,
// 2007), the entropy-regularized soft-margin booster: instead of
// LPBoost's hard re-solve, each round nudges the distribution by solving
// a quadratic program that keeps every accumulated hypothesis's margin
// within tolerance of gamma_hat, and the final hypothesis weights come
// from a linear program maximizing the soft margin rho minus slack.
//
// The per-round update is a genuine convex program — linear constraints,
// a separable quadratic objective — solved via solver/gonumlp's QPModel
// (an exterior quadratic-penalty reduction driving gonum/optimize's
// L-BFGS), not the unconstrained capped-simplex projection CERLPBoost
// uses: the two algorithms differ precisely in that SoftBoost's update
// must respect every past hypothesis's margin constraint, not just the
// live combined hypothesis.
package softboost

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

// Booster is SoftBoost over a fixed training sample.
type Booster struct {
	sample sample.Sample

	// Tolerance is the accuracy parameter driving both the iteration
	// bound and the per-round margin slack.
	Tolerance float64
	// Nu is the soft-margin capping parameter, in [1, m].
	Nu float64

	dist         []float64
	gammaHat     float64
	subTolerance float64

	classifiers []hypothesis.Hypothesis
	margins     [][]float64 // one row per accumulated hypothesis, parallel to classifiers
	weights     []float64

	maxIter    int
	terminated int
}

// New builds a SoftBoost booster with nu=1 (hard margin) by default.
func New(s sample.Sample, tolerance float64) *Booster {
	return &Booster{sample: s, Tolerance: tolerance, Nu: 1.0}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	m := b.sample.Rows()
	if m == 0 {
		return 0, booster.ConfigErrorf("sample has no rows")
	}
	if b.Nu < 1.0 || b.Nu > float64(m) {
		return 0, booster.ConfigErrorf("nu %g must be in [1, %d]", b.Nu, m)
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
	b.subTolerance = b.Tolerance / 10.0
	b.classifiers = nil
	b.margins = nil
	b.weights = nil

	b.maxIter = int(math.Ceil(2.0 * math.Log(float64(m)/b.Nu) / (b.Tolerance * b.Tolerance)))
	if b.maxIter < 1 {
		b.maxIter = 1
	}
	b.terminated = b.maxIter
	return b.maxIter, nil
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	h, err := wl.Produce(b.sample, b.dist)
	if err != nil {
		return control.State{}, fmt.Errorf("softboost: weak learner: %w", err)
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
	b.margins = append(b.margins, margin)

	if !b.updateDistribution() {
		b.terminated = iteration
		return control.Terminating(iteration), nil
	}
	return control.Continuing(), nil
}

// updateDistribution solves, each pass, the QP: minimize
// sum((log(m*d_i)+1)*delta_i + delta_i^2/(2*d_i)) over delta bounded by
// -d_i <= delta_i <= 1/nu - d_i, subject to sum(delta)=0 and, for every
// accumulated hypothesis j, <margin_j, d+delta> <= gammaHat - tolerance.
// It applies d += delta and repeats until the step shrinks below
// subTolerance. Returns false the moment the QP is declared infeasible
// or any d_i saturates at zero -- both read, per the numeric-degeneracy
// contract, as "optimality reached at the current tolerance" rather than
// a failure, so the caller terminates the outer loop cleanly.
func (b *Booster) updateDistribution() bool {
	m := len(b.dist)
	mf := float64(m)
	ub := 1.0 / b.Nu

	for {
		mdl := gonumlp.NewQP()
		vars := make([]solver.VarID, m)
		for i, d := range b.dist {
			vars[i] = mdl.AddVar(-d, ub-d)
		}

		for _, margin := range b.margins {
			coef := make(map[solver.VarID]float64, m)
			rhs := b.gammaHat - b.Tolerance
			for i, v := range vars {
				coef[v] = margin[i]
				rhs -= margin[i] * b.dist[i]
			}
			mdl.AddConstrLE(coef, rhs)
		}

		zeroSum := make(map[solver.VarID]float64, m)
		for _, v := range vars {
			zeroSum[v] = 1
		}
		mdl.AddConstrEQ(zeroSum, 0)

		linear := make(map[solver.VarID]float64, m)
		quad := make(map[solver.VarID]float64, m)
		for i, v := range vars {
			linear[v] = math.Log(mf*b.dist[i]) + 1.0
			quad[v] = 1.0 / b.dist[i]
		}
		mdl.SetObjective(linear, quad)

		status, err := mdl.Solve()
		if err != nil || status != solver.Optimal {
			return false
		}

		l2 := 0.0
		anyZero := false
		for i, v := range vars {
			delta := mdl.Primal(v)
			b.dist[i] += delta
			l2 += delta * delta
			if b.dist[i] == 0 {
				anyZero = true
			}
		}
		if anyZero {
			return false
		}
		if math.Sqrt(l2) < b.subTolerance {
			return true
		}
	}
}

func uniform(n int) []float64 {
	w := make([]float64, n)
	if n == 0 {
		return w
	}
	u := 1.0 / float64(n)
	for i := range w {
		w[i] = u
	}
	return w
}

// setWeights solves the final linear program: maximize the soft margin
// rho minus (1/nu) * total slack, subject to each example's combined
// margin meeting rho less its own slack, and the hypothesis weights
// summing to one.
func (b *Booster) setWeights() ([]float64, error) {
	target := b.sample.Target()
	m := len(target)
	t := len(b.classifiers)

	confs := make([][]float64, t)
	for j, h := range b.classifiers {
		confs[j] = h.BatchConfidence(b.sample)
	}

	mdl := gonumlp.New()
	ws := make([]solver.VarID, t)
	for j := range ws {
		ws[j] = mdl.AddVar("", 0, math.Inf(1))
	}
	xis := make([]solver.VarID, m)
	for i := range xis {
		xis[i] = mdl.AddVar("", 0, math.Inf(1))
	}
	rho := mdl.AddVar("rho", math.Inf(-1), math.Inf(1))

	for i := 0; i < m; i++ {
		coef := make(map[solver.VarID]float64, t+2)
		for j := range ws {
			coef[ws[j]] = target[i] * confs[j][i]
		}
		coef[rho] = -1
		coef[xis[i]] = 1
		mdl.AddConstrLE(coef, 0)
	}

	sumW := make(map[solver.VarID]float64, t)
	for _, v := range ws {
		sumW[v] = 1
	}
	mdl.AddConstrEQ(sumW, 1.0)

	obj := map[solver.VarID]float64{rho: 1}
	param := 1.0 / b.Nu
	for _, v := range xis {
		obj[v] = -param
	}
	mdl.SetObjective(obj, false)

	status, err := mdl.Optimize()
	if err != nil {
		return nil, booster.SolverErrorf("softboost weight lp: %w", err)
	}
	switch status {
	case solver.Optimal:
		weights := make([]float64, t)
		for j, v := range ws {
			weights[j] = mdl.Primal(v)
		}
		return weights, nil
	case solver.SubOptimal, solver.Infeasible, solver.InfeasibleOrUnbounded:
		// Numeric degeneracy: treat as optimality already reached and
		// fall back to the uniform weighting rather than surfacing an
		// error over a solution that does not exist.
		return uniform(t), nil
	default:
		return nil, booster.SolverErrorf("softboost weight lp: status %s", status)
	}
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	weights, err := b.setWeights()
	if err != nil {
		return nil, err
	}
	b.weights = weights

	var outW []float64
	var outH []hypothesis.Hypothesis
	for j, w := range weights {
		if w != 0.0 {
			outW = append(outW, w)
			outH = append(outH, b.classifiers[j])
		}
	}
	return hypothesis.NewCombined(outW, outH), nil
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	h, err := b.Postprocess(nil)
	if err != nil {
		return hypothesis.NewCombined(nil, nil)
	}
	return h
}

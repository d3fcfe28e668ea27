// Package mlpboost implements MLPBoost (Mitsuboshi, Hatano & Takimoto,
// 2022), a hybrid soft-margin booster: each round computes two candidate
// hypothesis-weight vectors -- a Frank-Wolfe "primary" step and an
// LP-solved "secondary" step -- and keeps whichever scores better under
// the entropic soft-margin objective. A repeated hypothesis is folded
// into its existing ensemble entry, so both steps target the entry's
// index rather than growing the list.
//
// The secondary step re-solves the soft-margin weight LP
// SoftBoost/ERLPBoost solve (maximize rho - (1/nu)*slack) over the
// current hypothesis list each round; the comparison criterion is
// always the entropic objective value.
package mlpboost

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

// Booster is MLPBoost over a fixed training sample.
type Booster struct {
	sample sample.Sample

	// Tolerance is the outer accuracy parameter.
	Tolerance float64
	// Nu is the soft-margin capping parameter, in [1, m].
	Nu float64

	eta   float64
	gamma float64

	classifiers []hypothesis.Hypothesis
	weights     []float64

	maxIter    int
	terminated int
}

// New builds an MLPBoost booster with nu=1 (hard margin) by default.
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
	if b.Tolerance <= 0 || b.Tolerance >= 0.5 {
		return 0, booster.ConfigErrorf("tolerance %g must be in (0, 0.5)", b.Tolerance)
	}

	lnRatio := math.Log(float64(m) / b.Nu)
	b.eta = lnRatio / b.Tolerance
	b.gamma = 1.0
	b.classifiers = nil
	b.weights = nil

	b.maxIter = int(math.Ceil(8.0 * lnRatio / (b.Tolerance * b.Tolerance)))
	if b.maxIter < 1 {
		b.maxIter = 1
	}
	b.terminated = b.maxIter
	return b.maxIter, nil
}

// distAt computes the capped-simplex distribution implied by weighting
// the current classifiers with weights: the same entropic projection of
// -eta*y*F_weights(x) that erlpboost and cerlpboost use.
func (b *Booster) distAt(weights []float64) []float64 {
	target := b.sample.Target()
	combined := hypothesis.NewCombined(weights, b.classifiers[:len(weights)])
	conf := combined.BatchConfidence(b.sample)
	scores := make([]float64, len(target))
	for i := range target {
		scores[i] = -b.eta * target[i] * conf[i]
	}
	return numeric.ProjectCappedSimplex(scores, b.Nu)
}

func entropy(d []float64) float64 {
	m := float64(len(d))
	sum := math.Log(m)
	for _, di := range d {
		if di > 0 {
			sum += di * math.Log(di)
		}
	}
	return sum
}

// objVal computes the entropic soft-margin objective at weights: the
// edge of the weighted ensemble against the distribution weights induces,
// plus that distribution's entropic penalty.
func (b *Booster) objVal(weights []float64) float64 {
	target := b.sample.Target()
	dist := b.distAt(weights)
	combined := hypothesis.NewCombined(weights, b.classifiers[:len(weights)])
	margin := numeric.MarginVector(target, combined.BatchConfidence(b.sample))
	edge := numeric.Edge(dist, margin)
	return edge + entropy(dist)/b.eta
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	dist := b.distAt(b.weights)

	h, err := wl.Produce(b.sample, dist)
	if err != nil {
		return control.State{}, fmt.Errorf("mlpboost: weak learner: %w", err)
	}

	target := b.sample.Target()
	conf := h.BatchConfidence(b.sample)
	if err := booster.CheckConfidences(conf); err != nil {
		return control.State{}, err
	}
	margin := numeric.MarginVector(target, conf)
	edgeH := numeric.Edge(dist, margin)
	b.gamma = math.Min(b.gamma, edgeH)

	if iteration == 1 {
		b.classifiers = append(b.classifiers, h)
		b.weights = append(b.weights, 1.0)
		return control.Continuing(), nil
	}

	objVal := b.objVal(b.weights)
	if b.gamma-objVal <= b.Tolerance {
		b.terminated = iteration
		return control.Terminating(iteration), nil
	}

	pos := -1
	for i, clf := range b.classifiers {
		if hypothesis.Same(clf, h) {
			pos = i
			break
		}
	}
	weights := append([]float64(nil), b.weights...)
	if pos < 0 {
		pos = len(b.classifiers)
		b.classifiers = append(b.classifiers, h)
		weights = append(weights, 0.0)
	}

	prim := b.primaryUpdate(weights, pos, iteration)
	seco, ok, err := b.secondaryUpdate()
	if err != nil {
		return control.State{}, err
	}
	if !ok {
		// The secondary LP hit numeric degeneracy (infeasible or only
		// suboptimally solvable): optimality has effectively been
		// reached, so stop on the primary step rather than comparing
		// against a solution that does not exist.
		b.weights = prim
		b.terminated = iteration
		return control.Terminating(iteration), nil
	}

	if b.objVal(prim) >= b.objVal(seco) {
		b.weights = prim
	} else {
		b.weights = seco
	}
	return control.Continuing(), nil
}

// primaryUpdate takes the classic Frank-Wolfe step toward the vertex
// that puts all mass on this round's hypothesis at index pos, with step
// size 2/(iteration+1).
func (b *Booster) primaryUpdate(weights []float64, pos, iteration int) []float64 {
	theta := 2.0 / float64(iteration+1)
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = (1 - theta) * w
	}
	out[pos] += theta
	return out
}

// secondaryUpdate solves the soft-margin weight LP (maximize rho -
// (1/nu)*sum(xi)) over the current hypothesis list. ok is false whenever
// the solver reports anything short of Optimal (SubOptimal, Infeasible,
// or InfeasibleOrUnbounded all count as numeric degeneracy, per the
// error-handling contract); weights is nil in that case.
func (b *Booster) secondaryUpdate() (weights []float64, ok bool, err error) {
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
		return nil, false, booster.SolverErrorf("mlpboost secondary lp: %w", err)
	}
	switch status {
	case solver.Optimal:
		weights := make([]float64, t)
		for j, v := range ws {
			weights[j] = mdl.Primal(v)
		}
		return weights, true, nil
	case solver.SubOptimal, solver.Infeasible, solver.InfeasibleOrUnbounded:
		return nil, false, nil
	default:
		return nil, false, booster.SolverErrorf("mlpboost secondary lp: status %s", status)
	}
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	var outW []float64
	var outH []hypothesis.Hypothesis
	for i, w := range b.weights {
		if w > 0.0 {
			outW = append(outW, w)
			outH = append(outH, b.classifiers[i])
		}
	}
	return hypothesis.NewCombined(outW, outH), nil
}

// CurrentHypothesis implements research.Researcher.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	h, _ := b.Postprocess(nil)
	return h
}

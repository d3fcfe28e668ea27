// Package erlpboost implements ERLPBoost (Warmuth, Glocer & Rätsch,
// 2008), the entropy-regularized soft-margin booster: it tracks both a
// running-minimum primal objective (gamma_hat) and the current optimum
// of a quadratic approximation around the live distribution (gamma_star),
// stopping once their gap closes to tolerance.
//
// Each round's distribution update re-solves a genuine quadratic program
// over a free margin variable gamma and one distribution variable per
// training row: gamma bounds every accumulated hypothesis' margin from
// above, and the objective trades gamma off against an entropic
// regularizer around the current distribution. solver/gonumlp's QPModel
// (an exterior quadratic-penalty reduction driving gonum/optimize's
// L-BFGS) solves it; the loop repeats until the objective value stops
// improving by more than SubTolerance. The final hypothesis-weight
// assignment is a genuine LP and is solved exactly.
package erlpboost

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

// Booster is ERLPBoost over a fixed training sample.
type Booster struct {
	sample sample.Sample

	// Tolerance is the outer accuracy parameter.
	Tolerance float64
	// Nu is the soft-margin capping parameter, in [1, m].
	Nu float64
	// SubTolerance bounds the inner distribution-update loop; defaults
	// to 1e-9 if left zero.
	SubTolerance float64

	dist      []float64
	eta       float64
	gammaHat  float64
	gammaStar float64

	classifiers []hypothesis.Hypothesis
	weights     []float64

	maxIter    int
	terminated int
}

// New builds an ERLPBoost booster with nu=1 (hard margin) by default.
func New(s sample.Sample, tolerance float64) *Booster {
	return &Booster{sample: s, Tolerance: tolerance, Nu: 1.0, SubTolerance: 1e-9}
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
	if b.SubTolerance <= 0 {
		b.SubTolerance = 1e-9
	}

	uni := 1.0 / float64(m)
	b.dist = make([]float64, m)
	for i := range b.dist {
		b.dist[i] = uni
	}
	b.classifiers = nil
	b.weights = nil

	lnRatio := math.Log(float64(m) / b.Nu)
	b.eta = math.Max(0.5, lnRatio/b.Tolerance)
	b.gammaHat = 1.0
	b.gammaStar = -1.0

	b.maxIter = int(math.Ceil(math.Max(4.0/b.Tolerance, 8.0*lnRatio/(b.Tolerance*b.Tolerance))))
	if b.maxIter < 1 {
		b.maxIter = 1
	}
	b.terminated = b.maxIter
	return b.maxIter, nil
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	h, err := wl.Produce(b.sample, b.dist)
	if err != nil {
		return control.State{}, fmt.Errorf("erlpboost: weak learner: %w", err)
	}

	target := b.sample.Target()
	conf := h.BatchConfidence(b.sample)
	if err := booster.CheckConfidences(conf); err != nil {
		return control.State{}, err
	}
	margin := numeric.MarginVector(target, conf)

	b.updateGammaHat(margin)

	if b.gammaHat-b.gammaStar <= b.Tolerance {
		b.terminated = iteration
		return control.Terminating(iteration), nil
	}

	b.classifiers = append(b.classifiers, h)
	if !b.updateDistribution() {
		b.terminated = iteration
		return control.Terminating(iteration), nil
	}
	b.updateGammaStar()

	return control.Continuing(), nil
}

// updateGammaHat folds the new hypothesis' objective value -- its edge
// against the live distribution plus the distribution's own entropic
// penalty -- into the running minimum.
func (b *Booster) updateGammaHat(margin []float64) {
	edge := numeric.Edge(b.dist, margin)
	objVal := edge + b.entropy(b.dist)/b.eta
	b.gammaHat = math.Min(b.gammaHat, objVal)
}

func (b *Booster) entropy(d []float64) float64 {
	m := float64(len(d))
	sum := math.Log(m)
	for _, di := range d {
		if di > 0 {
			sum += di * math.Log(di)
		}
	}
	return sum
}

// updateDistribution repeatedly minimizes the quadratic approximation of
// the ERLPBoost objective around the live distribution: a free margin
// variable gamma bounded above every accumulated hypothesis' margin
// against the candidate distribution, regularized by an entropic term
// around the previous round's distribution. It replaces self.dist with
// the optimum and repeats while the objective keeps improving by more
// than SubTolerance. Returns false the moment the QP reports anything
// short of Optimal/SubOptimal, or a coordinate saturates at zero -- both
// read as "optimality reached at the current tolerance" per the
// numeric-degeneracy contract, so the caller terminates cleanly.
func (b *Booster) updateDistribution() bool {
	m := len(b.dist)
	cap := 1.0 / b.Nu
	target := b.sample.Target()
	oldObjVal := 1e6

	for {
		mdl := gonumlp.NewQP()
		gamma := mdl.AddVar(math.Inf(-1), math.Inf(1))
		vars := make([]solver.VarID, m)
		for i := range vars {
			vars[i] = mdl.AddVar(0, cap)
		}

		for _, h := range b.classifiers {
			conf := h.BatchConfidence(b.sample)
			coef := make(map[solver.VarID]float64, m+1)
			for i, v := range vars {
				coef[v] = target[i] * conf[i]
			}
			coef[gamma] = -1
			mdl.AddConstrLE(coef, 0)
		}

		sumD := make(map[solver.VarID]float64, m)
		for _, v := range vars {
			sumD[v] = 1
		}
		mdl.AddConstrEQ(sumD, 1.0)

		linear := map[solver.VarID]float64{gamma: 1}
		quad := make(map[solver.VarID]float64, m)
		for i, v := range vars {
			linear[v] = math.Log(b.dist[i]) / b.eta
			quad[v] = 1.0 / (b.eta * b.dist[i])
		}
		mdl.SetObjective(linear, quad)

		status, err := mdl.Solve()
		if err != nil {
			return false
		}
		switch status {
		case solver.Optimal, solver.SubOptimal:
		default:
			return false
		}

		objVal := mdl.Primal(gamma)
		anyZero := false
		for i, v := range vars {
			d := mdl.Primal(v)
			objVal += linear[v]*d + 0.5*quad[v]*d*d
			b.dist[i] = d
			if d == 0 {
				anyZero = true
			}
		}
		if anyZero {
			return false
		}
		if oldObjVal-objVal < b.SubTolerance {
			return true
		}
		oldObjVal = objVal
	}
}

// updateGammaStar recomputes the current optimum of the quadratic
// approximation: the best edge among accumulated hypotheses against the
// freshly-updated distribution, plus the distribution's entropic term.
func (b *Booster) updateGammaStar() {
	target := b.sample.Target()
	maxEdge := math.Inf(-1)
	for _, h := range b.classifiers {
		margin := numeric.MarginVector(target, h.BatchConfidence(b.sample))
		edge := numeric.Edge(b.dist, margin)
		if edge > maxEdge {
			maxEdge = edge
		}
	}
	entropy := 0.0
	for _, di := range b.dist {
		if di > 0 {
			entropy += di * math.Log(di)
		}
	}
	m := float64(len(b.dist))
	b.gammaStar = maxEdge + (entropy+math.Log(m))/b.eta
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

// setWeights solves the same soft-margin weight LP SoftBoost solves:
// maximize rho - (1/nu)*sum(xi) subject to each example's combined
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
		return nil, booster.SolverErrorf("erlpboost weight lp: %w", err)
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
		return nil, booster.SolverErrorf("erlpboost weight lp: status %s", status)
	}
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	if len(b.classifiers) == 0 {
		return hypothesis.NewCombined(nil, nil), nil
	}
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

// Package smoothboost implements SmoothBoost (Servedio, 2003), the
// malicious-noise-tolerant booster that never lets any single example's
// weight run away: the distribution is capped through the auxiliary
// vectors m and n instead of a raw exponential reweighting.
package smoothboost

import (
	"fmt"
	"math"

	"github.com/inference-sim/boostctl/booster"
	"github.com/inference-sim/boostctl/control"
	"github.com/inference-sim/boostctl/hypothesis"
	"github.com/inference-sim/boostctl/sample"
	"github.com/inference-sim/boostctl/weaklearner"
)

// Booster is SmoothBoost over a fixed training sample.
type Booster struct {
	sample sample.Sample

	// Kappa is the desired training accuracy (1 - kappa).
	Kappa float64
	// Gamma is the weak-learner's guaranteed edge; Theta is derived from
	// it as gamma / (2 + gamma) to guarantee the convergence rate.
	Gamma float64
	theta float64

	nSample int
	current int

	terminated int
	maxIter    int

	classifiers []hypothesis.Hypothesis

	m, n []float64
}

// New builds a SmoothBoost booster with kappa=0.5 and gamma=0.25 unless
// overridden before the first Preprocess call.
func New(s sample.Sample) *Booster {
	return &Booster{sample: s, Kappa: 0.5, Gamma: 0.25}
}

func (b *Booster) Preprocess(_ weaklearner.WeakLearner) (int, error) {
	b.nSample = b.sample.Rows()
	if b.nSample == 0 {
		return 0, booster.ConfigErrorf("sample has no rows")
	}
	b.theta = b.Gamma / (2.0 + b.Gamma)

	if b.Kappa <= 0.0 || b.Kappa >= 1.0 {
		return 0, booster.ConfigErrorf("kappa %g must be in (0, 1)", b.Kappa)
	}
	if b.Gamma <= 0.0 || b.Gamma < b.theta || b.Gamma >= 0.5 {
		return 0, booster.ConfigErrorf("gamma %g must be in [theta=%g, 0.5) and positive", b.Gamma, b.theta)
	}

	b.current = 0
	b.maxIter = b.maxLoop()
	b.terminated = b.maxIter
	b.classifiers = nil

	b.m = make([]float64, b.nSample)
	b.n = make([]float64, b.nSample)
	for i := range b.m {
		b.m[i] = 1.0
		b.n[i] = 1.0
	}
	return b.maxIter, nil
}

func (b *Booster) maxLoop() int {
	denom := b.Kappa * b.Gamma * b.Gamma * math.Sqrt(1.0-b.Gamma)
	return int(math.Ceil(2.0 / denom))
}

func (b *Booster) Boost(wl weaklearner.WeakLearner, iteration int) (control.State, error) {
	b.current = iteration

	sum := 0.0
	for _, mj := range b.m {
		sum += mj
	}
	if sum < float64(b.nSample)*b.Kappa {
		b.terminated = iteration - 1
		return control.Terminating(iteration), nil
	}

	dist := make([]float64, b.nSample)
	for i, mj := range b.m {
		dist[i] = mj / sum
	}

	h, err := wl.Produce(b.sample, dist)
	if err != nil {
		return control.State{}, fmt.Errorf("smoothboost: weak learner: %w", err)
	}

	target := b.sample.Target()
	conf := h.BatchConfidence(b.sample)
	if err := booster.CheckConfidences(conf); err != nil {
		return control.State{}, err
	}
	b.classifiers = append(b.classifiers, h)
	for i := range b.n {
		b.n[i] += target[i]*conf[i] - b.theta
	}

	for i := range b.m {
		if b.n[i] <= 0.0 {
			b.m[i] = 1.0
		} else {
			b.m[i] = math.Pow(1.0-b.Gamma, b.n[i]*0.5)
		}
	}

	return control.Continuing(), nil
}

func (b *Booster) Postprocess(_ weaklearner.WeakLearner) (*hypothesis.Combined, error) {
	weight := 0.0
	if b.terminated > 0 {
		weight = 1.0 / float64(b.terminated)
	}
	weights := make([]float64, len(b.classifiers))
	for i := range weights {
		weights[i] = weight
	}
	return hypothesis.NewCombined(weights, b.classifiers), nil
}

// CurrentHypothesis implements research.Researcher: every collected
// classifier so far, weighted uniformly by 1/current, since the final
// round count is not yet known mid-run.
func (b *Booster) CurrentHypothesis() *hypothesis.Combined {
	unit := 0.0
	if b.current > 0 {
		unit = 1.0 / float64(b.current)
	}
	weights := make([]float64, len(b.classifiers))
	for i := range weights {
		weights[i] = unit
	}
	return hypothesis.NewCombined(weights, b.classifiers)
}
